package schema

// DefaultTemperature is applied to Anthropic-style requests that omit temperature.
const DefaultTemperature = 1.0

// Anthropic-style constants used by generated responses.
const (
	TypeMessage       = "message"
	StopReasonEndTurn = "end_turn"
)

type AnthropicRequest struct {
	Model string `json:"model" binding:"required,anthropic_model"`

	// accepted, never consulted by the mock
	System *string `json:"system,omitempty"`

	Messages    []AnthropicMessage `json:"messages" binding:"required,min=1,dive"`
	Temperature *float64           `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=1"`
	MaxTokens   *int               `json:"max_tokens,omitempty" binding:"omitempty,gte=1,lte=2048"`
}

// TemperatureOrDefault returns temperature, or DefaultTemperature when it was omitted.
func (r *AnthropicRequest) TemperatureOrDefault() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// MaxTokensOrDefault returns max_tokens, or MaxTokensLimit when it was omitted.
func (r *AnthropicRequest) MaxTokensOrDefault() int {
	if r.MaxTokens == nil {
		return MaxTokensLimit
	}
	return *r.MaxTokens
}

// AnthropicMessage content is checked by a struct-level rule, see validateAnthropicMessage.
type AnthropicMessage struct {
	Role    Role    `json:"role" binding:"required,oneof=user assistant"`
	Content Content `json:"content"`
}

type AnthropicResponse struct {
	ID         string          `json:"id" binding:"required"`
	Type       string          `json:"type" binding:"required,eq=message"`
	Role       Role            `json:"role" binding:"required,eq=assistant"`
	Content    []ContentBlock  `json:"content" binding:"required,min=1,dive"`
	Model      string          `json:"model" binding:"required"`
	StopReason string          `json:"stop_reason,omitempty" binding:"omitempty,oneof=end_turn max_tokens stop_sequence tool_use"`
	Usage      *AnthropicUsage `json:"usage,omitempty"`
}

type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens" binding:"gte=0"`
	OutputTokens int `json:"output_tokens" binding:"gte=0"`
}
