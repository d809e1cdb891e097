// Package llm turns the engine's structured decision into the banker's
// spoken line. It talks to any OpenAI-compatible chat completions endpoint
// and degrades to deterministic templates when the endpoint is missing or
// misbehaving, so the numeric outputs never depend on it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ai-banker/server/agent"
)

// Narrator produces the banker's prose for one turn.
type Narrator interface {
	Narrate(ctx context.Context, nc agent.NarrationContext) (string, error)
}

// OpenAINarrator calls a chat completions endpoint resolved from the
// environment. Zero value is not usable; use NewOpenAINarrator.
type OpenAINarrator struct {
	Model   string
	Timeout time.Duration
	client  *http.Client
}

func NewOpenAINarrator(model string, timeout time.Duration) *OpenAINarrator {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenAINarrator{
		Model:   model,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (n *OpenAINarrator) Narrate(ctx context.Context, nc agent.NarrationContext) (string, error) {
	cfg, err := resolveAPIConfig(n.Model)
	if err != nil {
		return "", err
	}

	payload := map[string]any{
		"model": cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": agent.BankerSystem},
			{"role": "user", "content": nc.UserPrompt()},
		},
		"response_format": map[string]any{"type": "json_object"},
	}
	b, _ := json.Marshal(payload)

	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(cfg.HeaderName, cfg.HeaderPrefix+cfg.APIKey)
	if cfg.Organization != "" {
		req.Header.Set("OpenAI-Organization", cfg.Organization)
	}
	for k, v := range cfg.ExtraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("narration http %d: %s", resp.StatusCode, truncate(buf.String(), 400))
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(buf.Bytes(), &cc); err != nil {
		return "", err
	}
	if len(cc.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return parseMessage(cc.Choices[0].Message.Content)
}

// parseMessage pulls {"message": "..."} out of the model's reply, tolerating
// code fences and surrounding prose.
func parseMessage(text string) (string, error) {
	try := func(s string) (string, bool) {
		var out struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return "", false
		}
		msg := strings.TrimSpace(out.Message)
		return msg, msg != ""
	}
	if msg, ok := try(text); ok {
		return msg, nil
	}
	if cleaned := extractJSONObject(text); cleaned != "" {
		if msg, ok := try(cleaned); ok {
			return msg, nil
		}
	}
	return "", fmt.Errorf("bad narration JSON: %s", truncate(text, 200))
}

// extractJSONObject pulls the first top-level {...} block from text,
// removing common code fences like ```json ... ```.
func extractJSONObject(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(s[start : end+1])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
