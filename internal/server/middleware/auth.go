package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-mock-api/pkg/api"
)

// ContextKeyAPIKey holds the caller supplied key in the gin context.
const ContextKeyAPIKey = "api_key"

// ExtractAPIKey reads the key from "Authorization: Bearer <key>" or, failing
// that, the x-api-key header.
func ExtractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			if token = strings.TrimSpace(token); token != "" {
				return token
			}
		}
	}
	return strings.TrimSpace(r.Header.Get("x-api-key"))
}

// APIKey stores the request's API key in the context. With required set, a
// request without one is rejected. The value itself is never checked.
func APIKey(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ExtractAPIKey(c.Request)
		if key == "" {
			if required {
				_ = c.Error(api.UnauthorizedError("Missing API key: send Authorization: Bearer <key> or x-api-key"))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		c.Set(ContextKeyAPIKey, key)
		c.Next()
	}
}
