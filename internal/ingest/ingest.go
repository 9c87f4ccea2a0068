// Package ingest reads source catalog exports into source records. Catalog
// CSVs arrive with inconsistent headers, so columns are located by a
// candidate list rather than position.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"seedlink/internal/record"
	"seedlink/internal/services"
)

// Column candidates, checked in order against normalized headers. The first
// header matching a candidate claims the role.
var (
	nameColumns        = []string{"variety_name", "variety", "name", "released_variety"}
	cropColumns        = []string{"crop_type", "crop", "crop_name", "species"}
	institutionColumns = []string{"breeding_institution", "institution", "developed_by", "breeder", "originating_centre"}
	yearColumns        = []string{"year_of_release", "release_year", "year", "notification_year"}
)

// yearPattern extracts a plausible release year from free text like
// "Notified in 2014 (Kharif)".
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

type columnMap struct {
	name        int
	crop        int
	institution int
	year        int
	// raw maps every unclaimed column to its normalized header.
	raw map[int]string
}

// ReadFile reads a catalog CSV from disk. Record ids are assigned from the
// row number; validation happens later, during linkage.
func ReadFile(path string, source record.Source) ([]record.SourceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	records, err := Read(f, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read parses catalog rows from r. The first row must be a header containing
// a recognizable variety name column.
func Read(r io.Reader, source record.Source) ([]record.SourceRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, services.Wrap(services.ErrValidation, "ingest", "read", "catalog is empty", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	prefix := idPrefix(source)
	var records []record.SourceRecord
	row := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err)
		}
		row++
		records = append(records, buildRecord(fields, columns, source, fmt.Sprintf("%s_%06d", prefix, row)))
	}
	return records, nil
}

func mapColumns(header []string) (columnMap, error) {
	columns := columnMap{name: -1, crop: -1, institution: -1, year: -1, raw: map[int]string{}}
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	claimed := make(map[int]struct{})
	claim := func(candidates []string) int {
		for _, candidate := range candidates {
			for i, h := range normalized {
				if _, taken := claimed[i]; taken {
					continue
				}
				if h == candidate {
					claimed[i] = struct{}{}
					return i
				}
			}
		}
		return -1
	}

	columns.name = claim(nameColumns)
	if columns.name == -1 {
		return columnMap{}, services.Wrap(services.ErrValidation, "ingest", "map_columns",
			fmt.Sprintf("no variety name column found in header %v", header), nil)
	}
	columns.crop = claim(cropColumns)
	columns.institution = claim(institutionColumns)
	columns.year = claim(yearColumns)

	for i, h := range normalized {
		if _, taken := claimed[i]; taken || h == "" {
			continue
		}
		columns.raw[i] = h
	}
	return columns, nil
}

func buildRecord(fields []string, columns columnMap, source record.Source, id string) record.SourceRecord {
	r := record.SourceRecord{
		ID:          id,
		Source:      source,
		VarietyName: cell(fields, columns.name),
		CropType:    cell(fields, columns.crop),
		Institution: cell(fields, columns.institution),
	}
	if year := cell(fields, columns.year); year != "" {
		r.YearOfRelease = parseYear(year)
	}
	for i, name := range columns.raw {
		if value := cell(fields, i); value != "" {
			if r.RawFields == nil {
				r.RawFields = map[string]string{}
			}
			r.RawFields[name] = value
		}
	}
	return r
}

// parseYear accepts a bare integer or falls back to the first year-like
// number embedded in the text. Unparseable values yield zero, which later
// reads as "year unknown".
func parseYear(value string) int {
	if year, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return year
	}
	if match := yearPattern.FindString(value); match != "" {
		year, _ := strconv.Atoi(match)
		return year
	}
	return 0
}

func cell(fields []string, index int) string {
	if index < 0 || index >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[index])
}

// normalizeHeader lowercases a header and collapses separators to
// underscores, so "Year of Release" and "year_of_release" map identically.
func normalizeHeader(header string) string {
	header = strings.ToLower(strings.TrimSpace(header))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range header {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func idPrefix(source record.Source) string {
	if source == record.SourcePortal {
		return "POR"
	}
	return "REG"
}
