package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clinicsetup/domain/core"
	"clinicsetup/internal"
	"clinicsetup/ports"

	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "o3-mini"
	defaultTimeout = 60 * time.Second
)

// Config holds the OpenAI connection settings for extraction.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// ReasoningEffort is sent for reasoning models; empty omits it.
	ReasoningEffort string
	Timeout         time.Duration
}

// OpenAIExtractor implements ports.Extractor with the Chat Completions API
// and a json_schema response format.
type OpenAIExtractor struct {
	config     Config
	httpClient *http.Client
	logger     *internal.Logger
}

// NewOpenAIExtractor validates config and creates an extractor.
func NewOpenAIExtractor(config Config, logger *internal.Logger) (*OpenAIExtractor, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = defaultBaseURL
	}
	if strings.TrimSpace(config.Model) == "" {
		config.Model = defaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &OpenAIExtractor{
		config:     config,
		httpClient: &http.Client{},
		logger:     logger,
	}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type responseFormat struct {
	Type       string           `json:"type"`
	JSONSchema jsonSchemaFormat `json:"json_schema"`
}

type requestBody struct {
	Model           string         `json:"model"`
	Messages        []message      `json:"messages"`
	ResponseFormat  responseFormat `json:"response_format"`
	ReasoningEffort string         `json:"reasoning_effort,omitempty"`
}

// Extract sends one request and validates the response envelope. The call
// is bounded by the configured timeout and never retried.
func (c *OpenAIExtractor) Extract(ctx context.Context, req *ports.ExtractionRequest) (*ports.ExtractionResponse, error) {
	c.logger.Info("[ExtractionClient] Starting extraction - schema=%s, model=%s, tableBytes=%d",
		req.Name, c.config.Model, len(req.Table))

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body := requestBody{
		Model: c.config.Model,
		Messages: []message{
			{Role: "developer", Content: req.Instructions},
			{Role: "user", Content: req.Table},
		},
		ResponseFormat: responseFormat{
			Type:       "json_schema",
			JSONSchema: jsonSchemaFormat{Name: req.Name, Schema: req.Schema},
		},
		ReasoningEffort: c.config.ReasoningEffort,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", core.ErrExtractionRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: request timeout after %v", core.ErrExtractionRequestFailed, c.config.Timeout)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", core.ErrExtractionRequestFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("[ExtractionClient] OpenAI API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
		return nil, fmt.Errorf("%w: OpenAI API error (status %d)", core.ErrExtractionRequestFailed, resp.StatusCode)
	}

	c.logger.Debug("[ExtractionClient] Response received in %v (%d bytes)", time.Since(startTime), len(respBody))
	out, err := c.parseResponse(respBody, req.Keys)
	if err != nil {
		return nil, err
	}
	out.Usage = parseUsage(respBody, c.config.Model)
	if out.Usage != nil {
		c.logger.Info("[ExtractionClient] Token usage - prompt=%d, completion=%d, total=%d",
			out.Usage.PromptTokens, out.Usage.CompletionTokens, out.Usage.TotalTokens)
	}
	return out, nil
}

// parseUsage reads the usage block of a completion, if any.
func parseUsage(body []byte, fallbackModel string) *ports.UsageData {
	usage := gjson.GetBytes(body, "usage")
	if !usage.Exists() {
		return nil
	}
	model := gjson.GetBytes(body, "model").String()
	if model == "" {
		model = fallbackModel
	}
	return &ports.UsageData{
		PromptTokens:     int(usage.Get("prompt_tokens").Int()),
		CompletionTokens: int(usage.Get("completion_tokens").Int()),
		TotalTokens:      int(usage.Get("total_tokens").Int()),
		Model:            model,
		Provider:         "openai",
	}
}

// parseResponse pulls the message content out of the completion and checks
// that every declared key holds an array.
func (c *OpenAIExtractor) parseResponse(body []byte, keys []string) (*ports.ExtractionResponse, error) {
	choice := gjson.GetBytes(body, "choices.0")
	if !choice.Exists() {
		return nil, fmt.Errorf("%w: no choices in response", core.ErrExtractionResponseInvalid)
	}
	if refusal := choice.Get("message.refusal").String(); refusal != "" {
		return nil, fmt.Errorf("%w: request refused: %s", core.ErrExtractionResponseInvalid, refusal)
	}
	if choice.Get("finish_reason").String() == "length" {
		return nil, fmt.Errorf("%w: response truncated at the token limit", core.ErrExtractionResponseInvalid)
	}

	content := cleanJSONContent(choice.Get("message.content").String())
	if content == "" {
		return nil, fmt.Errorf("%w: no content received", core.ErrExtractionResponseInvalid)
	}
	return decodeEnvelope(content, keys)
}

// decodeEnvelope parses content as the declared response envelope.
func decodeEnvelope(content string, keys []string) (*ports.ExtractionResponse, error) {
	if !gjson.Valid(content) {
		return nil, fmt.Errorf("%w: content is not valid JSON", core.ErrExtractionResponseInvalid)
	}
	root := gjson.Parse(content)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: content is not a JSON object", core.ErrExtractionResponseInvalid)
	}

	out := &ports.ExtractionResponse{Collections: make(map[string][]any, len(keys)), Raw: content}
	for _, key := range keys {
		value := root.Get(gjson.Escape(key))
		if !value.Exists() {
			return nil, fmt.Errorf("%w: missing %q in response", core.ErrExtractionResponseInvalid, key)
		}
		if !value.IsArray() {
			return nil, fmt.Errorf("%w: %q is not an array", core.ErrExtractionResponseInvalid, key)
		}
		var items []any
		if err := json.Unmarshal([]byte(value.Raw), &items); err != nil {
			return nil, fmt.Errorf("%w: failed to parse %q: %v", core.ErrExtractionResponseInvalid, key, err)
		}
		if items == nil {
			items = []any{}
		}
		out.Collections[key] = items
	}
	return out, nil
}

// cleanJSONContent removes markdown code fences and any chatter before the
// first JSON object.
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") && len(content) >= 6 {
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSpace(content)
	}

	if idx := strings.Index(content, "{"); idx > 0 {
		prefix := content[:idx]
		if !strings.ContainsAny(prefix, "[]\"") {
			content = content[idx:]
		}
	}
	return strings.TrimSpace(content)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
