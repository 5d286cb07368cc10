package common

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ValidationError carries the per-field messages collected for a request that
// failed validation. Errors is keyed by field name.
type ValidationError struct {
	Errors map[string]string
}

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed")
	for _, f := range fields {
		fmt.Fprintf(&b, "; %s: %s", f, e.Errors[f])
	}
	return b.String()
}

// Validator accumulates field errors across a sequence of checks. Only the
// first message recorded for a field is kept.
type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// CheckStringLength reports whether s is between min and max bytes long,
// inclusive.
func (v *Validator) CheckStringLength(s string, min, max int) bool {
	return len(s) >= min && len(s) <= max
}

// Matches reports whether s matches rx in full.
func Matches(s string, rx *regexp.Regexp) bool {
	return rx.MatchString(s)
}

func (v *Validator) ValidationError() error {
	return ValidationError{Errors: v.Errors}
}
