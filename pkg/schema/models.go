package schema

// openAIModels is the closed set of model identifiers accepted by the
// OpenAI-style endpoint.
var openAIModels = newModelSet(
	"o1-preview", "o1-preview-2024-09-12", "o1-mini", "o1-mini-2024-09-12",
	"gpt-4o", "gpt-4o-2024-11-20", "gpt-4o-2024-08-06", "gpt-4o-2024-05-13",
	"gpt-4o-realtime-preview", "gpt-4o-realtime-preview-2024-10-01",
	"gpt-4o-audio-preview", "gpt-4o-audio-preview-2024-10-01",
	"chatgpt-4o-latest", "gpt-4o-mini", "gpt-4o-mini-2024-07-18",
	"gpt-4-turbo", "gpt-4-turbo-2024-04-09", "gpt-4-0125-preview",
	"gpt-4-turbo-preview", "gpt-4-1106-preview", "gpt-4-vision-preview",
	"gpt-4", "gpt-4-0314", "gpt-4-0613", "gpt-4-32k", "gpt-4-32k-0314",
	"gpt-4-32k-0613", "gpt-3.5-turbo", "gpt-3.5-turbo-16k", "gpt-3.5-turbo-0301",
	"gpt-3.5-turbo-0613", "gpt-3.5-turbo-1106", "gpt-3.5-turbo-0125",
	"gpt-3.5-turbo-16k-0613",
)

// anthropicModels is the closed set of model identifiers accepted by the
// Anthropic-style endpoint.
var anthropicModels = newModelSet(
	"claude-3-5-sonnet-20241022",
)

type modelSet map[string]struct{}

func newModelSet(ids ...string) modelSet {
	s := make(modelSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s modelSet) contains(id string) bool {
	_, ok := s[id]
	return ok
}

// IsOpenAIModel reports whether id is on the OpenAI-style allow-list.
func IsOpenAIModel(id string) bool { return openAIModels.contains(id) }

// IsAnthropicModel reports whether id is on the Anthropic-style allow-list.
func IsAnthropicModel(id string) bool { return anthropicModels.contains(id) }
