package record

import (
	"fmt"
	"strings"
)

// ValidationError describes why a single source record was rejected. Rejected
// records are collected into the run report; they never abort a linkage run.
type ValidationError struct {
	RecordID string
	Source   Source
	Field    string
	Reason   string
}

func (e *ValidationError) Error() string {
	id := e.RecordID
	if id == "" {
		id = "<unknown>"
	}
	return fmt.Sprintf("record %s (%s): field %q: %s", id, e.Source, e.Field, e.Reason)
}

// Validate checks a source record against the structural requirements and the
// declarative rule table. It returns the first violation found, or nil.
func (r *SourceRecord) Validate(rules RuleSet) error {
	if strings.TrimSpace(r.VarietyName) == "" {
		return &ValidationError{
			RecordID: r.ID,
			Source:   r.Source,
			Field:    FieldVarietyName,
			Reason:   "required field is empty",
		}
	}
	if strings.TrimSpace(r.NormalizedName) == "" {
		return &ValidationError{
			RecordID: r.ID,
			Source:   r.Source,
			Field:    FieldVarietyName,
			Reason:   "name normalizes to empty",
		}
	}
	for _, field := range rules.Fields() {
		value := r.Field(field)
		if value == "" {
			continue
		}
		constraint := rules[field]
		if !constraint.Check(value) {
			return &ValidationError{
				RecordID: r.ID,
				Source:   r.Source,
				Field:    field,
				Reason:   constraint.Description,
			}
		}
	}
	return nil
}
