package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-mock-api/pkg/api"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached by a handler as an RFC 9457
// problem. Errors that are not *api.Problem become a generic 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var problem *api.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("Internal Error", zap.Int("status", problem.Status), zap.Error(problem.Log))
			}
			render(c, problem)
			return
		}

		logger.Error("Unhandled Error", zap.Error(err))
		render(c, api.New(
			http.StatusInternalServerError,
			"Internal Server Error",
			"An unexpected error occurred.",
		))
	}
}

func render(c *gin.Context, p *api.Problem) {
	// a handler that already wrote its body keeps it
	if c.Writer.Written() {
		return
	}
	c.Render(p.Status, problemJSON{p})
	c.Abort()
}
