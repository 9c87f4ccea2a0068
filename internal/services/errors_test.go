package services_test

import (
	"errors"
	"strings"
	"testing"

	"seedlink/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrComputation, "similarity", "score", "signal out of range", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrComputation) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"similarity", "score", "signal out of range"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToComputation(t *testing.T) {
	err := services.Wrap(nil, "matcher", "classify", "", nil)
	if !errors.Is(err, services.ErrComputation) {
		t.Fatalf("expected computation marker, got %v", err)
	}
}

func TestWrapWithoutBaseError(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "config", "validate", "weights must sum to 1", nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "weights must sum to 1") {
		t.Fatalf("expected message in %q", err.Error())
	}
}
