package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/nulzo/llm-mock-api/pkg/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AnthropicClient answers Anthropic-style message requests.
type AnthropicClient struct {
	*base
}

// NewAnthropicClient validates cfg and returns a ready client. An invalid
// cfg yields a *ConfigError.
func NewAnthropicClient(cfg Config, opts ...Option) (*AnthropicClient, error) {
	b, err := newBase(ProviderAnthropic, cfg, opts)
	if err != nil {
		return nil, err
	}
	return &AnthropicClient{base: b}, nil
}

// GetResponse builds the canned message for req. The system prompt,
// temperature and image blocks are accepted but play no part in the reply.
func (c *AnthropicClient) GetResponse(ctx context.Context, req *schema.AnthropicRequest) (*schema.AnthropicResponse, error) {
	_, span := c.tracer.Start(ctx, "mock.anthropic.GetResponse")
	defer span.End()
	defer c.rethrow(span)

	start := time.Now()
	if req == nil {
		c.finish(span, "", start, errNilRequest)
		return nil, c.fail(errNilRequest)
	}
	span.SetAttributes(attribute.String("llm.model", req.Model))

	c.logger.Debug("Request", zap.Any("request", req))

	resp, err := c.generate(req)
	c.finish(span, req.Model, start, err)
	if err != nil {
		return nil, c.fail(err)
	}

	c.metrics.RecordTokens(c.provider, req.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	c.logger.Debug("Response", zap.Any("response", resp))

	return resp, nil
}

func (c *AnthropicClient) generate(req *schema.AnthropicRequest) (*schema.AnthropicResponse, error) {
	content := anthropicReply()
	usage := AnthropicUsage(req.Messages, content)

	id, err := c.newID()
	if err != nil {
		return nil, fmt.Errorf("generate response id: %w", err)
	}

	resp := &schema.AnthropicResponse{
		ID:         id,
		Type:       schema.TypeMessage,
		Role:       schema.Assistant,
		Content:    content,
		Model:      req.Model,
		StopReason: schema.StopReasonEndTurn,
		Usage:      &usage,
	}

	if err := c.validator.Validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
