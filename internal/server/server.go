package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-mock-api/internal/config"
	"github.com/nulzo/llm-mock-api/internal/mock"
	"github.com/nulzo/llm-mock-api/internal/platform/metrics"
	"github.com/nulzo/llm-mock-api/internal/server/middleware"
	"github.com/nulzo/llm-mock-api/pkg/schema"
	"go.uber.org/zap"
)

type Server struct {
	router    *gin.Engine
	config    *config.Config
	logger    *zap.Logger
	validator *schema.Validator
	metrics   *metrics.Collector
	clientOpt []mock.Option
}

// Option customises a Server.
type Option func(*Server)

// WithClientOptions appends options to every per-request mock client.
func WithClientOptions(opts ...mock.Option) Option {
	return func(s *Server) {
		s.clientOpt = append(s.clientOpt, opts...)
	}
}

// New wires the gin engine. collector may be nil, in which case no metrics
// are recorded or exposed.
func New(cfg *config.Config, logger *zap.Logger, collector *metrics.Collector, opts ...Option) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	v := schema.NewValidator()

	engine := gin.New()

	engine.Use(middleware.Logger(logger))
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}

	s := &Server{
		router:    engine,
		config:    cfg,
		logger:    logger,
		validator: v,
		metrics:   collector,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
