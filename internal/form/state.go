package form

import "net/url"

// State is what a mounted form holds between render and submit: current
// values, per-field errors and whether a submission is in flight.
type State struct {
	Schema     *Schema
	Values     Record
	Errors     Result
	Submitting bool
}

// NewState returns an empty state for schema, as when the form first mounts.
func NewState(schema *Schema) *State {
	return &State{
		Schema: schema,
		Values: Record{},
		Errors: Result{},
	}
}

// Bind replaces the current values with the submitted ones.
func (s *State) Bind(values url.Values) {
	s.Values = s.Schema.Bind(values)
}

// Set updates a single field value.
func (s *State) Set(name, value string) {
	s.Values[name] = value
}

// Validate recomputes the errors and reports whether the form may be submitted.
func (s *State) Validate() bool {
	s.Errors = s.Schema.Validate(s.Values)
	return s.Errors.Valid()
}

// Reset clears values and errors after a successful submission.
func (s *State) Reset() {
	s.Values = Record{}
	s.Errors = Result{}
	s.Submitting = false
}

// Value returns the value to render back into the input. Sensitive fields
// always render empty.
func (s *State) Value(name string) string {
	if f, ok := s.Schema.Field(name); ok && f.Sensitive {
		return ""
	}
	return s.Values[name]
}

// Error returns the inline error for name, if any.
func (s *State) Error(name string) string {
	return s.Errors[name]
}
