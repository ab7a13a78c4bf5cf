// Package mock implements the per-provider mock clients: each turns an
// already validated request into a canned, schema-valid response.
package mock

import (
	"errors"
	"sync"
	"time"

	"github.com/nulzo/llm-mock-api/internal/platform/logger"
	"github.com/nulzo/llm-mock-api/internal/platform/metrics"
	"github.com/nulzo/llm-mock-api/pkg/schema"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/nulzo/llm-mock-api/internal/mock"

// Provider names used in logs and metric labels.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var errNilRequest = errors.New("request must not be nil")

var sharedValidator = sync.OnceValue(schema.NewValidator)

// Option customises a client at construction.
type Option func(*base)

func WithLogger(l *zap.Logger) Option {
	return func(b *base) {
		if l != nil {
			b.logger = l
		}
	}
}

func WithValidator(v *schema.Validator) Option {
	return func(b *base) {
		if v != nil {
			b.validator = v
		}
	}
}

func WithMetrics(c *metrics.Collector) Option {
	return func(b *base) { b.metrics = c }
}

// WithClock overrides the source of the response "created" timestamp.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.now = now
		}
	}
}

// WithIDGenerator overrides response id generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(b *base) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// base holds what both provider clients share. Nothing in it changes after
// construction, so a client may serve concurrent calls.
type base struct {
	provider  string
	config    Config
	logger    *zap.Logger
	validator *schema.Validator
	metrics   *metrics.Collector
	tracer    trace.Tracer
	now       func() time.Time
	newID     func() (string, error)
}

func newBase(provider string, cfg Config, opts []Option) (*base, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &base{
		provider: provider,
		config:   cfg,
		logger:   logger.Get(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		newID:    NewResponseID,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.validator == nil {
		b.validator = sharedValidator()
	}

	b.logger = b.logger.With(
		zap.String("component", provider+"-mock"),
		zap.String("model", cfg.Model),
	)
	b.logger.Debug("Loaded")

	return b, nil
}

// fail logs err with its failure class and hands it back unchanged.
func (b *base) fail(err error) error {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		return b.handleError(err, "Validation error.")
	}
	return b.handleError(err, "An unexpected error occurred.")
}

func (b *base) handleError(err error, message string) error {
	b.logger.Error(message, zap.Error(err))
	return err
}

// rethrow logs a panic raised while building a response and re-panics.
// It must be deferred directly.
func (b *base) rethrow(span trace.Span) {
	if r := recover(); r != nil {
		b.logger.Error("An unexpected error occurred.", zap.Any("panic", r), zap.Stack("stack"))
		span.SetStatus(codes.Error, "panic")
		panic(r)
	}
}

func (b *base) finish(span trace.Span, model string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	b.metrics.RecordRequest(b.provider, model, status, time.Since(start))
}
