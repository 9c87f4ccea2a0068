package record

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Constraint validates one raw field value. Constraints are data: a new
// validation rule is a new table entry, not a new code branch.
type Constraint struct {
	Description string
	Check       func(value string) bool
}

// RuleSet maps field names to the constraint applied when the field is
// non-empty. Empty fields are never a rule violation; completeness scoring
// handles absence separately.
type RuleSet map[string]Constraint

// Fields returns the constrained field names in deterministic order.
func (rs RuleSet) Fields() []string {
	fields := make([]string, 0, len(rs))
	for field := range rs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// IntRange builds a constraint accepting integers in [min, max].
func IntRange(min, max int) Constraint {
	return Constraint{
		Description: fmt.Sprintf("must be an integer between %d and %d", min, max),
		Check: func(value string) bool {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return false
			}
			return n >= min && n <= max
		},
	}
}

// OneOf builds a constraint accepting any listed value, case-insensitively.
func OneOf(allowed ...string) Constraint {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[strings.ToLower(strings.TrimSpace(v))] = struct{}{}
	}
	return Constraint{
		Description: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
		Check: func(value string) bool {
			_, ok := set[strings.ToLower(strings.TrimSpace(value))]
			return ok
		},
	}
}

// DefaultRules returns the constraint table applied during record validation.
// Year bounds track the earliest documented variety approvals through next
// year, so freshly announced releases pass.
func DefaultRules() RuleSet {
	nextYear := time.Now().Year() + 1
	return RuleSet{
		FieldYearOfRelease: IntRange(1950, nextYear),
		FieldMaturityDays:  IntRange(30, 400),
		FieldApprovalStatus: OneOf(
			"Released",
			"Notified",
			"Denotified",
			"Pending",
			"Provisional",
		),
	}
}
