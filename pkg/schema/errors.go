package schema

import (
	"fmt"
	"strings"
)

// Violation describes one field that failed its declared constraint.
type Violation struct {
	// Field is the json path below the root object, e.g. "messages[0].role".
	Field string `json:"field"`
	// Rule is the failing constraint tag, e.g. "min", "oneof", "type".
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// ValidationError enumerates every violation found while decoding or
// validating a payload.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields flattens the violations into field -> message. The first
// violation reported for a field wins.
func (e *ValidationError) Fields() map[string]string {
	m := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := m[v.Field]; !ok {
			m[v.Field] = v.Message
		}
	}
	return m
}

// Has reports whether field has a violation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Get returns the first violation reported for field.
func (e *ValidationError) Get(field string) (Violation, bool) {
	for _, v := range e.Violations {
		if v.Field == field {
			return v, true
		}
	}
	return Violation{}, false
}
