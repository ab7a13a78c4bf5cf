package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-mock-api/internal/mock"
	"github.com/nulzo/llm-mock-api/internal/platform/metrics"
	"github.com/nulzo/llm-mock-api/internal/server/middleware"
	"github.com/nulzo/llm-mock-api/pkg/api"
	"github.com/nulzo/llm-mock-api/pkg/schema"
	"go.uber.org/zap"
)

// Keys are the placeholder credentials used when a request carries no API key.
type Keys struct {
	OpenAI    string
	Anthropic string
}

type CompletionHandler struct {
	logger    *zap.Logger
	validator *schema.Validator
	metrics   *metrics.Collector
	keys      Keys
	opts      []mock.Option
}

// NewCompletionHandler serves both provider endpoints. opts are appended to
// the options every per-request client is built with.
func NewCompletionHandler(logger *zap.Logger, v *schema.Validator, m *metrics.Collector, keys Keys, opts ...mock.Option) *CompletionHandler {
	return &CompletionHandler{
		logger:    logger,
		validator: v,
		metrics:   m,
		keys:      keys,
		opts:      opts,
	}
}

// OpenAI handles POST /chat/completions.
func (h *CompletionHandler) OpenAI(c *gin.Context) {
	var req schema.OpenAIRequest
	if !h.decode(c, mock.ProviderOpenAI, &req) {
		return
	}

	client, err := mock.NewOpenAIClient(mock.Config{
		APIKey: h.apiKey(c, h.keys.OpenAI),
		Model:  req.Model,
	}, h.clientOptions()...)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to configure the OpenAI mock client", err))
		return
	}

	resp, err := client.GetResponse(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Anthropic handles POST /claude/completions.
func (h *CompletionHandler) Anthropic(c *gin.Context) {
	var req schema.AnthropicRequest
	if !h.decode(c, mock.ProviderAnthropic, &req) {
		return
	}

	client, err := mock.NewAnthropicClient(mock.Config{
		APIKey: h.apiKey(c, h.keys.Anthropic),
		Model:  req.Model,
	}, h.clientOptions()...)
	if err != nil {
		_ = c.Error(api.InternalError("Failed to configure the Anthropic mock client", err))
		return
	}

	resp, err := client.GetResponse(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// decode reads and validates the body into dst. On failure it attaches a
// problem to the context and returns false.
func (h *CompletionHandler) decode(c *gin.Context, provider string, dst any) bool {
	body, err := c.GetRawData()
	if err != nil {
		_ = c.Error(api.BadRequestError("Failed to read request body", api.WithLog(err)))
		return false
	}

	err = h.validator.Decode(body, dst)
	if err == nil {
		return true
	}

	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		_ = c.Error(api.InternalError("Failed to validate request", err))
		return false
	}

	for _, v := range verr.Violations {
		h.metrics.RecordValidationFailure(provider, v.Rule)
	}
	h.logger.Debug("Rejected request", zap.String("provider", provider), zap.Strings("fields", fieldNames(verr)))
	_ = c.Error(api.ValidationError(verr.Fields(), api.WithExtension("violations", verr.Violations)))
	return false
}

// fail maps a GetResponse error. A generated response that breaks its own
// schema is a server fault, so it is a 500 carrying the offending fields.
func (h *CompletionHandler) fail(c *gin.Context, err error) {
	var verr *schema.ValidationError
	if errors.As(err, &verr) {
		_ = c.Error(api.InternalError(
			"Generated response failed schema validation",
			err,
			api.WithExtension("errors", verr.Fields()),
			api.WithExtension("violations", verr.Violations),
		))
		return
	}
	_ = c.Error(err)
}

func (h *CompletionHandler) apiKey(c *gin.Context, fallback string) string {
	if key := c.GetString(middleware.ContextKeyAPIKey); key != "" {
		return key
	}
	return fallback
}

func (h *CompletionHandler) clientOptions() []mock.Option {
	opts := []mock.Option{
		mock.WithLogger(h.logger),
		mock.WithValidator(h.validator),
		mock.WithMetrics(h.metrics),
	}
	return append(opts, h.opts...)
}

func fieldNames(verr *schema.ValidationError) []string {
	out := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		out = append(out, v.Field)
	}
	return out
}
