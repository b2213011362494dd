// Package form declares typed validation schemas for the credential and agent
// forms and holds per-request form state.
//
// A Schema is an ordered list of fields. Each field may be required and may
// carry extra rules (email format, cross-field match, enum, numeric range).
// Validation never trims or case-folds input: the value the user typed is the
// value that is checked and submitted.
package form

import (
	"fmt"
	"net/url"

	"github.com/mtlprog/nexa/internal/domain"
)

// Record maps a field name to the value the user entered.
type Record map[string]string

// Result maps a field name to its error message. A missing key means the
// field is valid.
type Result map[string]string

// Valid reports whether the result holds no errors.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Rule checks a single field value, with access to the whole record for
// cross-field rules. It returns an empty string when the value is acceptable.
type Rule func(value string, record Record) string

// Field describes one input of a form.
type Field struct {
	Name        string
	Label       string
	Type        string // HTML input type
	Placeholder string
	Required    bool
	// Sensitive values are kept in state but never rendered back.
	Sensitive bool
	// Hidden fields are carried through the form without being shown.
	Hidden bool
	Rules  []Rule
}

// Schema is the declarative rule set for one form.
type Schema struct {
	Name   string
	Fields []Field
}

// Field returns the field declaration for name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Bind builds a Record from submitted values, keeping only declared fields.
func (s *Schema) Bind(values url.Values) Record {
	rec := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		rec[f.Name] = values.Get(f.Name)
	}
	return rec
}

// Validate checks every field of rec and returns all errors found.
func (s *Schema) Validate(rec Record) Result {
	res := Result{}
	for _, f := range s.Fields {
		if msg := f.check(rec); msg != "" {
			res[f.Name] = msg
		}
	}
	return res
}

// ValidateField checks a single field, as done when an input loses focus.
func (s *Schema) ValidateField(rec Record, name string) (string, error) {
	f, ok := s.Field(name)
	if !ok {
		return "", fmt.Errorf("%w: field %q not in form %s", domain.ErrUnknownForm, name, s.Name)
	}
	return f.check(rec), nil
}

func (f Field) check(rec Record) string {
	value := rec[f.Name]
	if value == "" {
		if f.Required {
			return Required(f.Label)
		}
		return ""
	}
	for _, rule := range f.Rules {
		if msg := rule(value, rec); msg != "" {
			return msg
		}
	}
	return ""
}
