package mock

import (
	"strings"
	"unicode/utf8"

	"github.com/nulzo/llm-mock-api/pkg/schema"
)

// The two providers count differently on purpose: OpenAI-style usage is
// word based, Anthropic-style usage is character based.

// OpenAIUsage approximates token accounting for an OpenAI-style exchange.
// Each message costs the length of its role plus the number of words in its
// content; the completion costs the number of words in reply.
func OpenAIUsage(messages []schema.OpenAIMessage, reply string) schema.OpenAIUsage {
	prompt := 0
	for _, m := range messages {
		prompt += utf8.RuneCountInString(string(m.Role)) + wordCount(m.Content)
	}
	completion := wordCount(reply)

	return schema.OpenAIUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// AnthropicUsage approximates token accounting for an Anthropic-style
// exchange. Each message costs the length of its role plus the character
// length of its content; the output costs the characters of every reply block.
func AnthropicUsage(messages []schema.AnthropicMessage, reply []schema.ContentBlock) schema.AnthropicUsage {
	input := 0
	for _, m := range messages {
		input += utf8.RuneCountInString(string(m.Role)) + m.Content.Len()
	}

	output := 0
	for _, b := range reply {
		output += b.TextLen()
	}

	return schema.AnthropicUsage{
		InputTokens:  input,
		OutputTokens: output,
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
