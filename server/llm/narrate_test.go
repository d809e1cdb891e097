package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ai-banker/server/agent"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestNarrateHappyPath(t *testing.T) {
	clearProviderEnv(t)
	var gotPath, gotAuth string
	var gotPayload struct {
		Model    string `json:"model"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(`{"message":"Take the money and run."}`)))
	}))
	defer ts.Close()

	t.Setenv("OPENAI_API_BASE", ts.URL)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	n := NewOpenAINarrator("gpt-test", 5*time.Second)
	msg, err := n.Narrate(context.Background(), agent.NarrationContext{Round: 2, Offer: 161463})
	require.NoError(t, err)
	require.Equal(t, "Take the money and run.", msg)
	require.Equal(t, "/chat/completions", gotPath)
	require.Equal(t, "Bearer sk-test", gotAuth)
	require.Equal(t, "gpt-test", gotPayload.Model)
	require.Len(t, gotPayload.Messages, 2, "system directive plus user context")
}

func TestNarrateToleratesCodeFences(t *testing.T) {
	clearProviderEnv(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(completionBody("```json\n{\"message\":\"Fenced but fine.\"}\n```")))
	}))
	defer ts.Close()

	t.Setenv("OPENAI_API_BASE", ts.URL)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	msg, err := NewOpenAINarrator("gpt-test", 5*time.Second).Narrate(context.Background(), agent.NarrationContext{})
	require.NoError(t, err)
	require.Equal(t, "Fenced but fine.", msg)
}

func TestNarrateHTTPError(t *testing.T) {
	clearProviderEnv(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer ts.Close()

	t.Setenv("OPENAI_API_BASE", ts.URL)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	_, err := NewOpenAINarrator("gpt-test", 5*time.Second).Narrate(context.Background(), agent.NarrationContext{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestParseMessage(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", `{"message":"hello"}`, "hello", false},
		{"fenced", "```json\n{\"message\":\"hi\"}\n```", "hi", false},
		{"surrounded", `Sure! {"message":"done"} hope that helps`, "done", false},
		{"whitespace trimmed", `{"message":"  padded  "}`, "padded", false},
		{"empty message", `{"message":""}`, "", true},
		{"not json", "take the deal", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseMessage(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	require.Equal(t, `{"a":1}`, extractJSONObject("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, extractJSONObject(`text before {"a":1} text after`))
	require.Equal(t, "", extractJSONObject("no braces here"))
}
