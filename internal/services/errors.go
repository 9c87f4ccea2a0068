package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation marks a malformed source record. Rejected per record;
	// the linkage run continues for the remaining records.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks an invalid policy: overlapping tier thresholds
	// or weight sets that do not sum sensibly. Fatal at construction and
	// never silently clamped.
	ErrConfiguration = errors.New("configuration error")
	// ErrComputation marks an internal invariant violation, such as a
	// similarity signal outside [0,1]. Surfaced, never masked.
	ErrComputation = errors.New("computation error")
	// ErrNotFound marks a missing stored entity (run, review item).
	ErrNotFound = errors.New("not found")
)

// Wrap builds an error that carries component context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrComputation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "linkage failure"
	}
	return strings.Join(parts, ": ")
}
