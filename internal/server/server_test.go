package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/llm-mock-api/internal/config"
	"github.com/nulzo/llm-mock-api/internal/mock"
	"github.com/nulzo/llm-mock-api/internal/platform/metrics"
	"github.com/nulzo/llm-mock-api/pkg/api"
	"github.com/nulzo/llm-mock-api/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", Env: "test"},
		Mock: config.MockConfig{
			OpenAIAPIKey:    "sk-key",
			AnthropicAPIKey: "cl-key",
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, opts ...Option) http.Handler {
	t.Helper()
	collector := metrics.NewCollector(metrics.Config{}, nil)
	return New(cfg, zap.NewNop(), collector, opts...).Handler()
}

func do(h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

type problemBody struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors"`

	Violations []schema.Violation `json:"violations"`
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) problemBody {
	t.Helper()
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	var p problemBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestChatCompletions_Success(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodPost, "/chat/completions",
		`{"model":"gpt-4","messages":[{"role":"user","content":"Hello, how are you?"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.OpenAIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Len(t, resp.ID, 32)
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, "gpt-4", resp.Model)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Equal(t, schema.Assistant, resp.Choices[0].Message.Role)
	assert.Equal(t, mock.OpenAIReply, resp.Choices[0].Message.Content)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 8, resp.Usage.PromptTokens)
	assert.Equal(t, 11, resp.Usage.CompletionTokens)
	assert.Equal(t, 19, resp.Usage.TotalTokens)
}

func TestChatCompletions_MaxTokensTrimsReply(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodPost, "/chat/completions",
		`{"model":"gpt-4o-mini","max_tokens":3,"messages":[{"role":"system","content":"Be terse"},{"role":"user","content":"Hi"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.OpenAIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "I didn't understand", resp.Choices[0].Message.Content)
	assert.Equal(t, 3, resp.Usage.CompletionTokens)
	assert.Equal(t, 6+2+4+1, resp.Usage.PromptTokens)
}

func TestChatCompletions_ValidationFailures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{"empty messages", `{"model":"gpt-4","messages":[]}`, []string{"messages"}},
		{"messages wrong type", `{"model":"gpt-4","messages":"invalid-type"}`, []string{"messages"}},
		{"invalid role", `{"model":"gpt-4","messages":[{"role":"invalid_role","content":"Hi"}]}`, []string{"messages[0].role"}},
		{"missing content", `{"model":"gpt-4","messages":[{"role":"user"}]}`, []string{"messages[0].content"}},
		{"unsupported model", `{"model":"gpt-5","messages":[{"role":"user","content":"Hi"}]}`, []string{"model"}},
		{"numeric model", `{"model":123,"messages":[{"role":"user","content":"Hi"}]}`, []string{"model"}},
		{"max tokens above limit", `{"model":"gpt-4","max_tokens":4096,"messages":[{"role":"user","content":"Hi"}]}`, []string{"max_tokens"}},
		{"several at once", `{"model":"nope","messages":[{"role":"bot","content":""}]}`, []string{"model", "messages[0].role", "messages[0].content"}},
		{"two type errors", `{"model":123,"messages":"x"}`, []string{"model", "messages"}},
		{"case mismatched keys", `{"MODEL":"gpt-4","Messages":[{"role":"user","content":"Hi"}]}`, []string{"model", "messages"}},
		{"malformed json", `{"model":`, []string{"body"}},
	}

	h := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/chat/completions", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			p := decodeProblem(t, w)
			assert.Equal(t, api.ValidationType, p.Type)
			assert.Equal(t, "Validation Error", p.Title)
			assert.Equal(t, http.StatusUnprocessableEntity, p.Status)
			assert.Len(t, p.Errors, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, p.Errors, f)
			}
		})
	}
}

func TestChatCompletions_ListsEveryViolation(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodPost, "/chat/completions",
		`{"model":"gpt-4","max_tokens":"abc","temperature":"hot","messages":[{"role":5,"content":"Hi"},{"content":"Hi"}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	p := decodeProblem(t, w)
	require.Len(t, p.Violations, 4)

	rules := make(map[string]string, len(p.Violations))
	for _, v := range p.Violations {
		assert.NotEmpty(t, v.Message)
		rules[v.Field] = v.Rule + ":" + v.Param
	}
	assert.Equal(t, map[string]string{
		"max_tokens":       "type:integer",
		"temperature":      "type:number",
		"messages[0].role": "type:string",
		"messages[1].role": "required:",
	}, rules)
}

func TestChatCompletions_TypeMismatchMessage(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodPost, "/chat/completions", `{"model":"gpt-4","messages":{}}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	p := decodeProblem(t, w)
	assert.Equal(t, "messages must be of type array", p.Errors["messages"])
}

func TestClaudeCompletions_Success(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodPost, "/claude/completions",
		`{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"user","content":"Hello, Claude"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "message", resp["type"])
	assert.Equal(t, "assistant", resp["role"])
	assert.Equal(t, "end_turn", resp["stop_reason"])
	assert.Equal(t, "claude-3-5-sonnet-20241022", resp["model"])
	assert.Equal(t, []any{map[string]any{"type": "text", "text": "Hello!"}}, resp["content"])
	assert.Equal(t, map[string]any{"input_tokens": float64(17), "output_tokens": float64(6)}, resp["usage"])
}

func TestClaudeCompletions_BlockContent(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodPost, "/claude/completions",
		`{"model":"claude-3-5-sonnet-20241022","system":"ignored","temperature":0.5,"messages":[{"role":"user","content":[{"type":"text","text":"Hi"},{"type":"image"}]}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp schema.AnthropicResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Usage.InputTokens)
}

func TestClaudeCompletions_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty messages", `{"model":"claude-3-5-sonnet-20241022","messages":[]}`, "messages"},
		{"system role", `{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"system","content":"Hi"}]}`, "messages[0].role"},
		{"temperature too high", `{"model":"claude-3-5-sonnet-20241022","temperature":1.5,"messages":[{"role":"user","content":"Hi"}]}`, "temperature"},
		{"openai model", `{"model":"gpt-4","messages":[{"role":"user","content":"Hi"}]}`, "model"},
		{"bad block type", `{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"user","content":[{"type":"audio"}]}]}`, "messages[0].content[0].type"},
		{"mistyped block text", `{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"user","content":[{"type":"text","text":5}]}]}`, "messages[0].content[0].text"},
		{"content number", `{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"user","content":42}]}`, "messages[0].content"},
	}

	h := newTestServer(t, testConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/claude/completions", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Contains(t, decodeProblem(t, w).Errors, tt.field)
		})
	}
}

func TestCompletions_BrokenResponseIsServerError(t *testing.T) {
	h := newTestServer(t, testConfig(), WithClientOptions(
		mock.WithIDGenerator(func() (string, error) { return "", nil }),
	))

	w := do(h, http.MethodPost, "/chat/completions",
		`{"model":"gpt-4","messages":[{"role":"user","content":"Hi"}]}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	p := decodeProblem(t, w)
	assert.Equal(t, "Internal Server Error", p.Title)
	assert.Contains(t, p.Errors, "id")
	require.NotEmpty(t, p.Violations)
	assert.Equal(t, "id", p.Violations[0].Field)
}

func TestAuth_RequireKey(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.RequireKey = true
	h := newTestServer(t, cfg)

	body := `{"model":"claude-3-5-sonnet-20241022","messages":[{"role":"user","content":"Hi"}]}`

	w := do(h, http.MethodPost, "/claude/completions", body)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, http.StatusUnauthorized, decodeProblem(t, w).Status)

	w = do(h, http.MethodPost, "/claude/completions", body, "x-api-key", "anything")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(h, http.MethodPost, "/chat/completions",
		`{"model":"gpt-4","messages":[{"role":"user","content":"Hi"}]}`,
		"Authorization", "Bearer sk-live")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRootRedirectsToDocs(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/docs", w.Header().Get("Location"))

	w = do(h, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/chat/completions")
	assert.Contains(t, w.Body.String(), "/claude/completions")
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "uptime")
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, testConfig())

	do(h, http.MethodPost, "/chat/completions", `{"model":"gpt-4","messages":[{"role":"user","content":"Hi"}]}`)
	do(h, http.MethodPost, "/chat/completions", `{"model":"gpt-4","messages":[]}`)

	w := do(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `llm_mock_requests_total{model="gpt-4",provider="openai",status="success"} 1`)
	assert.Contains(t, w.Body.String(), `llm_mock_validation_failures_total{provider="openai",rule="min"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	h := newTestServer(t, cfg)

	w := do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, testConfig())

	w := do(h, http.MethodOptions, "/chat/completions", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
