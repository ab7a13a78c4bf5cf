package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/nulzo/llm-mock-api/pkg/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OpenAIClient answers OpenAI-style chat completion requests.
type OpenAIClient struct {
	*base
}

// NewOpenAIClient validates cfg and returns a ready client. An invalid cfg
// yields a *ConfigError.
func NewOpenAIClient(cfg Config, opts ...Option) (*OpenAIClient, error) {
	b, err := newBase(ProviderOpenAI, cfg, opts)
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{base: b}, nil
}

// GetResponse builds the canned completion for req. Any failure is logged
// and returned unchanged: a *schema.ValidationError when the generated
// response breaks its schema, the underlying error otherwise.
func (c *OpenAIClient) GetResponse(ctx context.Context, req *schema.OpenAIRequest) (*schema.OpenAIResponse, error) {
	_, span := c.tracer.Start(ctx, "mock.openai.GetResponse")
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

	c.metrics.RecordTokens(c.provider, req.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	c.logger.Debug("Response", zap.Any("response", resp))

	return resp, nil
}

func (c *OpenAIClient) generate(req *schema.OpenAIRequest) (*schema.OpenAIResponse, error) {
	answer := TrimMessage(OpenAIReply, req.MaxTokensOrDefault())
	usage := OpenAIUsage(req.Messages, answer)

	id, err := c.newID()
	if err != nil {
		return nil, fmt.Errorf("generate response id: %w", err)
	}

	resp := &schema.OpenAIResponse{
		ID: id,
		Choices: []schema.OpenAIChoice{{
			Index:        0,
			FinishReason: schema.FinishReasonStop,
			Message: schema.OpenAIResponseMessage{
				Role:    schema.Assistant,
				Content: answer,
			},
		}},
		Created: c.now().Unix(),
		Model:   req.Model,
		Object:  schema.ObjectChatCompletion,
		Usage:   &usage,
	}

	if err := c.validator.Validate(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
