package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicsetup/domain/core"
	"clinicsetup/ports"
)

func testRequest() *ports.ExtractionRequest {
	return &ports.ExtractionRequest{
		Name:         "memberships",
		Table:        `[{"sheet":"memberships","header":["Name"],"rows":[["Gold"]]}]`,
		Schema:       map[string]any{"type": "object"},
		Instructions: "Extract memberships.",
		Keys:         []string{"memberships"},
	}
}

func completion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []any{map[string]any{
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(body)
}

func newTestExtractor(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *OpenAIExtractor {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ex, err := NewOpenAIExtractor(Config{
		APIKey:          "test-key",
		BaseURL:         server.URL + "/",
		ReasoningEffort: "high",
		Timeout:         timeout,
	}, nil)
	require.NoError(t, err)
	return ex
}

func TestExtractSendsStructuredRequest(t *testing.T) {
	var captured map[string]any
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &captured))
		_, _ = io.WriteString(w, completion(`{"memberships":[{"membership_name":"Gold","monthly_fee":100}]}`))
	}, time.Second)

	resp, err := ex.Extract(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "o3-mini", captured["model"])
	assert.Equal(t, "high", captured["reasoning_effort"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "developer", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Extract memberships.", messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
	format := captured["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
	assert.Equal(t, "memberships", format["json_schema"].(map[string]any)["name"])

	require.Len(t, resp.Collections["memberships"], 1)
	assert.Equal(t, map[string]any{"membership_name": "Gold", "monthly_fee": 100.0}, resp.Collections["memberships"][0])
}

func TestExtractReportsUsage(t *testing.T) {
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"model":"o3-mini-2025-01-31","choices":[{"message":{"content":"{\"memberships\":[]}"},"finish_reason":"stop"}],`+
			`"usage":{"prompt_tokens":120,"completion_tokens":30,"total_tokens":150}}`)
	}, time.Second)

	resp, err := ex.Extract(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, ports.UsageData{
		PromptTokens:     120,
		CompletionTokens: 30,
		TotalTokens:      150,
		Model:            "o3-mini-2025-01-31",
		Provider:         "openai",
	}, *resp.Usage)
}

func TestExtractWithoutUsage(t *testing.T) {
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completion(`{"memberships":[]}`))
	}, time.Second)

	resp, err := ex.Extract(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.Usage)
}

func TestExtractStripsCodeFences(t *testing.T) {
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, completion("```json\n{\"memberships\": []}\n```"))
	}, time.Second)

	resp, err := ex.Extract(context.Background(), testRequest())
	require.NoError(t, err)
	assert.NotNil(t, resp.Collections["memberships"])
	assert.Empty(t, resp.Collections["memberships"])
}

func TestExtractRequestFailures(t *testing.T) {
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}, time.Second)

	_, err := ex.Extract(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtractionRequestFailed))
	assert.Contains(t, err.Error(), "429")
}

func TestExtractTimeout(t *testing.T) {
	release := make(chan struct{})
	ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := ex.Extract(context.Background(), testRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrExtractionRequestFailed))
	assert.Contains(t, err.Error(), "timeout")
}

func TestExtractInvalidResponses(t *testing.T) {
	cases := map[string]string{
		"no choices":      `{"choices":[]}`,
		"empty content":   completion(""),
		"not json":        completion("I could not find any memberships."),
		"missing key":     completion(`{"packages":[]}`),
		"not an array":    completion(`{"memberships":{"membership_name":"Gold"}}`),
		"top level array": completion(`[{"membership_name":"Gold"}]`),
		"refusal":         `{"choices":[{"message":{"content":null,"refusal":"cannot help"},"finish_reason":"stop"}]}`,
		"truncated":       `{"choices":[{"message":{"content":"{\"memberships\":[{"},"finish_reason":"length"}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			ex := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			}, time.Second)

			_, err := ex.Extract(context.Background(), testRequest())
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrExtractionResponseInvalid), err.Error())
		})
	}
}

func TestNewOpenAIExtractorRequiresKey(t *testing.T) {
	_, err := NewOpenAIExtractor(Config{}, nil)
	assert.Error(t, err)
}

func TestCleanJSONContent(t *testing.T) {
	assert.Equal(t, `{"a":1}`, cleanJSONContent("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONContent("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, cleanJSONContent("Here is the JSON:\n{\"a\":1}"))
	assert.Equal(t, `[1]`, cleanJSONContent(" [1] "))
}

func TestStaticExtractor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canned.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"memberships":[{"membership_name":"Gold"}]}`), 0o644))

	s, err := NewStaticExtractorFromFile(path)
	require.NoError(t, err)
	resp, err := s.Extract(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Collections["memberships"], 1)

	req := testRequest()
	req.Keys = []string{"equipment"}
	_, err = s.Extract(context.Background(), req)
	assert.True(t, errors.Is(err, core.ErrExtractionResponseInvalid))
}
