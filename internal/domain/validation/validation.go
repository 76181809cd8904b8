package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var validate = validator.New()

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Errors is returned by domain services when input is rejected.
type Errors []Issue

func (e Errors) Error() string {
	caser := cases.Title(language.English)
	parts := make([]string, 0, len(e))
	for _, issue := range e {
		parts = append(parts, strings.TrimSpace(label(caser, issue.Field)+" "+issue.Reason))
	}
	return strings.Join(parts, "; ")
}

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// label title-cases plain snake_case names; anything else, such as
// checklist.NO_DUES or ids[2], is printed as given.
func label(caser cases.Caser, field string) string {
	if !snakeCase.MatchString(field) {
		return field
	}
	return caser.String(strings.ReplaceAll(field, "_", " "))
}

// HasField reports whether any issue names field.
func (e Errors) HasField(field string) bool {
	for _, issue := range e {
		if issue.Field == field {
			return true
		}
	}
	return false
}

func As(err error) (Errors, bool) {
	var out Errors
	if errors.As(err, &out) {
		return out, true
	}
	return nil, false
}

// Field builds a single-issue error.
func Field(field, reason string) error {
	return Errors{{Field: field, Reason: reason}}
}

type Validator struct {
	issues []Issue
}

func New() *Validator {
	return &Validator{issues: make([]Issue, 0, 4)}
}

func (v *Validator) Add(field, reason string) {
	if v == nil {
		return
	}
	field = strings.TrimSpace(field)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return
	}
	v.issues = append(v.issues, Issue{Field: field, Reason: reason})
}

func (v *Validator) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

// Enum accepts an empty value; tokens are matched case-sensitively.
func (v *Validator) Enum(field, value string, allowed []string) {
	if value == "" {
		return
	}
	for _, candidate := range allowed {
		if value == candidate {
			return
		}
	}
	v.Add(field, "must be one of "+strings.Join(allowed, ", "))
}

func (v *Validator) Email(field, value string) {
	if value == "" {
		return
	}
	if err := validate.Var(value, "email"); err != nil {
		v.Add(field, "must be a valid email address")
	}
}

func (v *Validator) MaxLen(field, value string, max int) {
	if err := validate.Var(value, fmt.Sprintf("max=%d", max)); err != nil {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v *Validator) UUID(field, value string) bool {
	if err := validate.Var(value, "required,uuid"); err != nil {
		v.Add(field, "must be a valid id")
		return false
	}
	return true
}

// Date parses YYYY-MM-DD or RFC3339. An empty value yields the zero time.
func (v *Validator) Date(field, raw string) (time.Time, bool) {
	parsed, err := ParseDate(strings.TrimSpace(raw))
	if err != nil {
		v.Add(field, "must be a valid date in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return parsed, true
}

// Amount parses a non-negative decimal. An empty value yields zero.
func (v *Validator) Amount(field, raw string) (decimal.Decimal, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return decimal.Zero, true
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		v.Add(field, "must be a number")
		return decimal.Zero, false
	}
	if parsed.IsNegative() {
		v.Add(field, "must not be negative")
		return decimal.Zero, false
	}
	return parsed.Round(2), true
}

func (v *Validator) HasIssues() bool {
	return v != nil && len(v.issues) > 0
}

func (v *Validator) Issues() []Issue {
	if v == nil || len(v.issues) == 0 {
		return nil
	}
	out := make([]Issue, len(v.issues))
	copy(out, v.issues)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Field == out[j].Field {
			return out[i].Reason < out[j].Reason
		}
		return out[i].Field < out[j].Field
	})
	return out
}

// Err returns nil when no issues were recorded.
func (v *Validator) Err() error {
	if !v.HasIssues() {
		return nil
	}
	return Errors(v.Issues())
}

func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}
