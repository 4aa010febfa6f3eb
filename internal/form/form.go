// Package form parses and validates the page forms.
package form

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fixed validation messages shown in the page alert.
const (
	MsgRequired   = "Please fill in all required fields"
	MsgChat       = "Please fill in all fields"
	MsgDailyTip   = "Please select grade and subject"
	MsgAssessment = "Please fill in all required fields and add at least one topic"
)

// HomeworkMaxLen is the longest homework question accepted.
const HomeworkMaxLen = 500

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is returned by Validate. Message is the text for the user,
// Fields lists the offending form fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

// Form is implemented by every page form.
type Form interface {
	message() string
}

// Validate checks f's tags. It returns *ValidationError on failure.
func Validate(f Form) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{Message: f.message()}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, fe.Field())
	}
	return ve
}

// Ready reports whether f would pass validation.
func Ready(f Form) bool {
	return validate.Struct(f) == nil
}

func value(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func valueOr(r *http.Request, key, def string) string {
	if v := value(r, key); v != "" {
		return v
	}
	return def
}

// intInRange parses key and clamps it to [lo, hi]. Missing or malformed
// values yield def.
func intInRange(r *http.Request, key string, lo, hi, def int) int {
	n, err := strconv.Atoi(value(r, key))
	if err != nil {
		return def
	}
	return min(max(n, lo), hi)
}

// boolOr reads a checkbox. Forms send a hidden "<key>_present" field so an
// unchecked box can be told apart from a missing one.
func boolOr(r *http.Request, key string, def bool) bool {
	if r.FormValue(key+"_present") == "" && r.FormValue(key) == "" {
		return def
	}
	switch strings.ToLower(value(r, key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// list collects all values of key, one per input or per line, dropping blanks.
func list(r *http.Request, key string) []string {
	if err := r.ParseForm(); err != nil {
		return nil
	}
	var out []string
	for _, v := range r.Form[key] {
		for _, line := range strings.Split(v, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// scores parses comma, space or newline separated percentages. Entries that
// are not numbers are dropped; numbers are clamped to 0..100.
func scores(r *http.Request, key string) []float64 {
	var out []float64
	for _, raw := range list(r, key) {
		for _, f := range strings.FieldsFunc(raw, func(c rune) bool { return c == ',' || c == ' ' || c == ';' }) {
			n, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
			if err != nil {
				continue
			}
			out = append(out, min(max(n, 0), 100))
		}
	}
	return out
}
