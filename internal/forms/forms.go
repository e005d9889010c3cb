// Package forms turns submitted form values into typed, validated data.
//
// Each form has an Input struct bound from the request and a Clean step
// returning a Result: either the cleaned Value or per-field Errors.
package forms

import (
	"strings"

	"github.com/anonto42/yatube/validators"
)

// NonFieldErrors is the key of errors that belong to the form as a whole.
const NonFieldErrors = "__all__"

// Validator is satisfied by echo validators such as validators.CustomValidator.
type Validator interface {
	Validate(i interface{}) error
}

// FieldErrors maps a form field name to its error messages.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Get is a nil-safe lookup usable from templates.
func (e FieldErrors) Get(field string) []string {
	if e == nil {
		return nil
	}
	return e[field]
}

func (e FieldErrors) NonField() []string {
	return e.Get(NonFieldErrors)
}

// Result is the outcome of cleaning a form.
type Result[T any] struct {
	Value  T
	Errors FieldErrors
}

func (r Result[T]) Valid() bool {
	return len(r.Errors) == 0
}

func validate(v Validator, in interface{}) FieldErrors {
	errs := FieldErrors{}
	for field, msgs := range validators.Messages(v.Validate(in)) {
		errs[field] = msgs
	}
	return errs
}

func strip(s string) string {
	return strings.TrimSpace(s)
}
