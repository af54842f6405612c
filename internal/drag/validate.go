package drag

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Rules are the caller-configurable date checks. The displacement cap is
// always enforced and never looser than DefaultMaxDisplacementDays;
// MaxDisplacementDays <= 0 means the default.
type Rules struct {
	PreventPastDates    bool
	EnforceDateOrder    bool
	MaxDisplacementDays int
}

func DefaultRules() Rules {
	return Rules{
		PreventPastDates:    true,
		EnforceDateOrder:    true,
		MaxDisplacementDays: DefaultMaxDisplacementDays,
	}
}

func (r Rules) maxDisplacement() int {
	if r.MaxDisplacementDays <= 0 || r.MaxDisplacementDays > DefaultMaxDisplacementDays {
		return DefaultMaxDisplacementDays
	}
	return r.MaxDisplacementDays
}

type Rule string

const (
	RulePastDate        Rule = "past_date"
	RuleDateOrder       Rule = "date_order"
	RuleMaxDisplacement Rule = "max_displacement"
)

// Violation is one failed check against a proposed date pair.
type Violation struct {
	Rule    Rule
	Field   string
	Message string
}

func (v Violation) String() string {
	return v.Message
}

// Validation splits violations into blocking errors and advisory warnings.
type Validation struct {
	Errors   []Violation
	Warnings []Violation
}

// OK reports whether nothing blocks the proposal.
func (v Validation) OK() bool {
	return len(v.Errors) == 0
}

// Err returns a *ValidationError for blocking violations, nil otherwise.
func (v Validation) Err(taskID string) error {
	if v.OK() {
		return nil
	}
	return &ValidationError{TaskID: taskID, Violations: v.Errors}
}

// Validate checks a proposed date pair against the original and today.
// The past-date rule looks at both dates, changed or not. Rules that are
// turned off still report their hits as warnings.
func Validate(orig, proposed Dates, today time.Time, rules Rules) Validation {
	var v Validation
	today = domain.CivilDate(today)

	add := func(blocking bool, viol Violation) {
		if blocking {
			v.Errors = append(v.Errors, viol)
			return
		}
		v.Warnings = append(v.Warnings, viol)
	}

	if proposed.Start.Before(today) {
		add(rules.PreventPastDates, Violation{
			Rule:    RulePastDate,
			Field:   "start_date",
			Message: fmt.Sprintf("start date %s is before today %s", domain.FormatDate(proposed.Start), domain.FormatDate(today)),
		})
	}
	if proposed.Due.Before(today) {
		add(rules.PreventPastDates, Violation{
			Rule:    RulePastDate,
			Field:   "due_date",
			Message: fmt.Sprintf("due date %s is before today %s", domain.FormatDate(proposed.Due), domain.FormatDate(today)),
		})
	}
	if proposed.Start.After(proposed.Due) {
		add(rules.EnforceDateOrder, Violation{
			Rule:    RuleDateOrder,
			Field:   "start_date",
			Message: fmt.Sprintf("start date %s is after due date %s", domain.FormatDate(proposed.Start), domain.FormatDate(proposed.Due)),
		})
	}

	limit := rules.maxDisplacement()
	if n := abs(domain.DaysBetween(orig.Start, proposed.Start)); n > limit {
		add(true, Violation{
			Rule:    RuleMaxDisplacement,
			Field:   "start_date",
			Message: fmt.Sprintf("start date moves %d days (limit %d)", n, limit),
		})
	}
	if n := abs(domain.DaysBetween(orig.Due, proposed.Due)); n > limit {
		add(true, Violation{
			Rule:    RuleMaxDisplacement,
			Field:   "due_date",
			Message: fmt.Sprintf("due date moves %d days (limit %d)", n, limit),
		})
	}
	return v
}

// ValidationError is returned when a commit is blocked by enabled rules.
type ValidationError struct {
	TaskID     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return fmt.Sprintf("reschedule of %s rejected: %s", e.TaskID, strings.Join(msgs, "; "))
}

// Has reports whether the error includes a violation of rule.
func (e *ValidationError) Has(rule Rule) bool {
	for _, v := range e.Violations {
		if v.Rule == rule {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
