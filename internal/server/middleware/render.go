package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/nulzo/llm-mock-api/pkg/api"
)

// problemJSON is a gin render.Render that keeps the problem+json content type.
type problemJSON struct {
	problem *api.Problem
}

func (r problemJSON) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	b, err := json.Marshal(r.problem)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (r problemJSON) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
}
