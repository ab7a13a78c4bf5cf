package schema

// MaxTokensLimit is the largest max_tokens value either provider accepts.
const MaxTokensLimit = 2048

// OpenAI-style constants used by generated responses.
const (
	ObjectChatCompletion = "chat.completion"
	FinishReasonStop     = "stop"
)

// Role is the author of a chat message.
type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

type OpenAIRequest struct {
	// message array is required, dive in and deep validate
	Messages []OpenAIMessage `json:"messages" binding:"required,min=1,dive"`

	// must be one of the OpenAI allow-list entries
	Model string `json:"model" binding:"required,openai_model"`

	MaxTokens   *int     `json:"max_tokens,omitempty" binding:"omitempty,gte=1,lte=2048"`
	Temperature *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
}

// MaxTokensOrDefault returns max_tokens, or MaxTokensLimit when it was omitted.
func (r *OpenAIRequest) MaxTokensOrDefault() int {
	if r.MaxTokens == nil {
		return MaxTokensLimit
	}
	return *r.MaxTokens
}

type OpenAIMessage struct {
	Role    Role   `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content" binding:"required"`
}

type OpenAIResponse struct {
	ID      string         `json:"id" binding:"required"`
	Choices []OpenAIChoice `json:"choices" binding:"required,min=1,dive"`
	Created int64          `json:"created" binding:"gte=0"`
	Model   string         `json:"model" binding:"required"`
	Object  string         `json:"object" binding:"required,eq=chat.completion"`
	Usage   *OpenAIUsage   `json:"usage,omitempty"`
}

type OpenAIChoice struct {
	FinishReason string                `json:"finish_reason" binding:"required,oneof=stop length tool_calls content_filter function_call"`
	Index        int                   `json:"index" binding:"gte=0"`
	Message      OpenAIResponseMessage `json:"message"`
}

type OpenAIResponseMessage struct {
	Role    Role   `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// OpenAIUsage is the token accounting record. TotalTokens must equal
// PromptTokens + CompletionTokens.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens" binding:"gte=0"`
	CompletionTokens int `json:"completion_tokens" binding:"gte=0"`
	TotalTokens      int `json:"total_tokens" binding:"gte=0"`
}
