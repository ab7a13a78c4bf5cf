package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ValidationType is the RFC 9457 "type" URI for schema validation failures.
const ValidationType = "https://github.com/nulzo/llm-mock-api/problems/validation"

// Problem implements RFC 9457
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	Extensions map[string]interface{} `json:"-"`

	Log error `json:"-"`
}

func (p *Problem) Error() string {
	return fmt.Sprintf("[%d] %s: %s", p.Status, p.Title, p.Detail)
}

func (p *Problem) Unwrap() error {
	return p.Log
}

// MarshalJSON flattens Extensions into the root object, as the RFC requires.
func (p *Problem) MarshalJSON() ([]byte, error) {
	type Alias Problem

	data := make(map[string]interface{}, len(p.Extensions)+5)
	for k, v := range p.Extensions {
		data[k] = v
	}

	stdJSON, err := json.Marshal(Alias(*p))
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stdJSON, &data); err != nil {
		return nil, err
	}

	return json.Marshal(data)
}

type ProblemOption func(*Problem)

// New creates a generic Problem
func New(status int, title, detail string, opts ...ProblemOption) *Problem {
	p := &Problem{
		Type:       "about:blank",
		Title:      title,
		Status:     status,
		Detail:     detail,
		Extensions: make(map[string]interface{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// WithExtension adds a custom key-value pair to the response
func WithExtension(key string, value interface{}) ProblemOption {
	return func(p *Problem) {
		p.Extensions[key] = value
	}
}

// WithLog attaches an internal error for server-side logging
func WithLog(err error) ProblemOption {
	return func(p *Problem) {
		p.Log = err
	}
}

// WithType sets the RFC "type" URI
func WithType(uri string) ProblemOption {
	return func(p *Problem) {
		p.Type = uri
	}
}

// ValidationError reports every offending field of a request payload.
func ValidationError(fields map[string]string, opts ...ProblemOption) *Problem {
	opts = append([]ProblemOption{
		WithType(ValidationType),
		WithExtension("errors", fields),
	}, opts...)

	return New(
		http.StatusUnprocessableEntity,
		"Validation Error",
		"One or more fields failed validation",
		opts...,
	)
}

// BadRequestError creates a standard error for a bad request
func BadRequestError(detail string, opts ...ProblemOption) *Problem {
	return New(http.StatusBadRequest, "Bad Request", detail, opts...)
}

// UnauthorizedError creates a 401 problem
func UnauthorizedError(detail string) *Problem {
	return New(http.StatusUnauthorized, "Unauthorized", detail)
}

// InternalError creates a 500 problem. err is logged, never rendered.
func InternalError(detail string, err error, opts ...ProblemOption) *Problem {
	return New(http.StatusInternalServerError, "Internal Server Error", detail, append(opts, WithLog(err))...)
}
