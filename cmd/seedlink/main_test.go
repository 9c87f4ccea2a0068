package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestWorkspace writes a config file pointing every path at the test's
// temp directory, plus two small catalog CSVs.
func writeTestWorkspace(t *testing.T) (configPath, regulatoryCSV, portalCSV string) {
	t.Helper()

	base := t.TempDir()
	configPath = filepath.Join(base, "config.toml")
	body := fmt.Sprintf("[paths]\ndata_dir = %q\nlog_dir = %q\n\n[logging]\nformat = \"json\"\n",
		filepath.Join(base, "data"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	regulatoryCSV = filepath.Join(base, "regulatory.csv")
	regBody := `variety_name,crop_type,breeding_institution,year_of_release
HD 3226,Wheat,IARI,2019
Pusa Basmati 1718,Rice,IARI,2017
`
	if err := os.WriteFile(regulatoryCSV, []byte(regBody), 0o644); err != nil {
		t.Fatalf("write regulatory csv: %v", err)
	}

	portalCSV = filepath.Join(base, "portal.csv")
	porBody := `Variety,Crop,Developed By,Release Year
HD 3226,Wheat,IARI,2019
PB 1718,Paddy,Indian Agricultural Research Institute,2017
`
	if err := os.WriteFile(portalCSV, []byte(porBody), 0o644); err != nil {
		t.Fatalf("write portal csv: %v", err)
	}
	return configPath, regulatoryCSV, portalCSV
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func TestLinkCommandEndToEnd(t *testing.T) {
	configPath, regCSV, porCSV := writeTestWorkspace(t)

	out, err := runCLI(t, configPath, "link", "--regulatory", regCSV, "--portal", porCSV)
	if err != nil {
		t.Fatalf("link: %v\n%s", err, out)
	}
	for _, want := range []string{"Matched", "Saved run"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// The saved run is visible to the reporting commands.
	out, err = runCLI(t, configPath, "runs")
	if err != nil {
		t.Fatalf("runs: %v\n%s", err, out)
	}
	if strings.Contains(out, "No saved runs") {
		t.Fatalf("run not persisted:\n%s", out)
	}

	out, err = runCLI(t, configPath, "varieties")
	if err != nil {
		t.Fatalf("varieties: %v\n%s", err, out)
	}
	for _, want := range []string{"HD 3226", "rice", "wheat"} {
		if !strings.Contains(out, want) {
			t.Errorf("varieties output missing %q:\n%s", want, out)
		}
	}
}

func TestLinkCommandNoSave(t *testing.T) {
	configPath, regCSV, porCSV := writeTestWorkspace(t)

	out, err := runCLI(t, configPath, "link", "--regulatory", regCSV, "--portal", porCSV, "--no-save")
	if err != nil {
		t.Fatalf("link: %v\n%s", err, out)
	}
	if strings.Contains(out, "Saved run") {
		t.Errorf("unexpected save notice:\n%s", out)
	}

	out, err = runCLI(t, configPath, "report")
	if err == nil {
		t.Fatalf("expected report to fail with no saved runs, got:\n%s", out)
	}
}

func TestScoreCommand(t *testing.T) {
	configPath, _, _ := writeTestWorkspace(t)

	out, err := runCLI(t, configPath, "score", "Pusa Basmati 1718", "PB 1718", "--crop", "rice")
	if err != nil {
		t.Fatalf("score: %v\n%s", err, out)
	}
	for _, want := range []string{"Token overlap", "Confidence", "Tier"} {
		if !strings.Contains(out, want) {
			t.Errorf("score output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "REJECTED") {
		t.Errorf("abbreviated variant should not be rejected:\n%s", out)
	}
}

func TestGradeCommand(t *testing.T) {
	configPath, regCSV, _ := writeTestWorkspace(t)

	out, err := runCLI(t, configPath, "grade", regCSV)
	if err != nil {
		t.Fatalf("grade: %v\n%s", err, out)
	}
	for _, want := range []string{"Complete", "Quality", "Confidence"} {
		if !strings.Contains(out, want) {
			t.Errorf("grade output missing %q:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, configPath, "grade", regCSV, "--source", "municipal"); err == nil {
		t.Fatal("expected unknown --source value to be rejected")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v\n%s", err, stdout.String())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[matching]") {
		t.Fatalf("sample config missing matching section:\n%s", data)
	}

	// A second init without --overwrite must refuse.
	cmd = newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
}

func TestReviewCommandsOnEmptyQueue(t *testing.T) {
	configPath, _, _ := writeTestWorkspace(t)

	out, err := runCLI(t, configPath, "review", "list")
	if err != nil {
		t.Fatalf("review list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Review queue is empty") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := runCLI(t, configPath, "review", "accept", "42"); err == nil {
		t.Fatal("expected error accepting a nonexistent review entry")
	}
}
