package mock

import (
	"strings"

	"github.com/google/uuid"
	"github.com/nulzo/llm-mock-api/pkg/schema"
)

// Canned replies.
const (
	OpenAIReply    = "I didn't understand that. Can you please join our premium program?"
	AnthropicReply = "Hello!"
)

// TrimMessage keeps at most maxTokens whitespace-delimited words of message,
// joined by single spaces.
func TrimMessage(message string, maxTokens int) string {
	words := strings.Fields(message)
	if maxTokens < 0 {
		maxTokens = 0
	}
	if len(words) > maxTokens {
		words = words[:maxTokens]
	}
	return strings.Join(words, " ")
}

// NewResponseID returns a time-based UUID in compact hex form.
func NewResponseID() (string, error) {
	id, err := uuid.NewUUID()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

func anthropicReply() []schema.ContentBlock {
	return []schema.ContentBlock{schema.TextBlock(AnthropicReply)}
}
