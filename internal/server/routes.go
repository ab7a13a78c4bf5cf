package server

import (
	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-mock-api/internal/server/middleware"
	v1 "github.com/nulzo/llm-mock-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	s.router.GET("/", v1.Redirect)
	s.router.GET("/docs", v1.Docs)

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	if s.config.Metrics.Enabled && s.metrics != nil {
		s.router.GET(s.config.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	completions := v1.NewCompletionHandler(s.logger, s.validator, s.metrics, v1.Keys{
		OpenAI:    s.config.Mock.OpenAIAPIKey,
		Anthropic: s.config.Mock.AnthropicAPIKey,
	}, s.clientOpt...)

	api := s.router.Group("/")
	api.Use(middleware.APIKey(s.config.Auth.RequireKey))
	{
		api.POST("/chat/completions", completions.OpenAI)
		api.POST("/claude/completions", completions.Anthropic)
	}
}
