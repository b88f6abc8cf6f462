package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func completionBody(t *testing.T, content string) []byte {
	t.Helper()
	payload := map[string]any{
		"choices": []any{
			map[string]any{
				"message": map[string]any{"content": content},
			},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	return encoded
}

func TestDescribeParsesResponse(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token")
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		gotPrompt = req.Messages[0].Content
		w.Write(completionBody(t, `{"description":"Dig for gems in a cozy cave.","genre":"Puzzle","num_player":"1","_comment":""}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Model: "demo-model"})
	info := GameInfo{Title: "Cave Dig", Summaries: []string{"A mining game"}}
	desc, err := client.Describe(context.Background(), info, "function TIC() end")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.Description != "Dig for gems in a cozy cave." || desc.Genre != "Puzzle" || desc.NumPlayers != "1" {
		t.Fatalf("unexpected description: %+v", desc)
	}
	if !strings.Contains(gotPrompt, "Cave Dig") || !strings.Contains(gotPrompt, "A mining game") {
		t.Fatal("prompt missing catalog context")
	}
	if !strings.Contains(gotPrompt, "function TIC() end") {
		t.Fatal("prompt missing source code")
	}
}

func TestDescribeHandlesCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, "```json\n{\"description\":\"d\",\"genre\":\"\",\"num_player\":\"1-2\"}\n```"))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"})
	desc, err := client.Describe(context.Background(), GameInfo{Title: "X"}, "code")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.NumPlayers != "1-2" {
		t.Fatalf("NumPlayers = %q", desc.NumPlayers)
	}
}

func TestDescribeRequiresAPIKeyAndSource(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:1", Model: "m"})
	if _, err := client.Describe(context.Background(), GameInfo{}, "code"); err == nil {
		t.Fatal("expected error without api key")
	}
	client = NewClient(Config{APIKey: "k", BaseURL: "http://localhost:1", Model: "m"})
	if _, err := client.Describe(context.Background(), GameInfo{}, "  "); err == nil {
		t.Fatal("expected error without source code")
	}
}

func TestDescribeRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(completionBody(t, `{"description":"d","genre":"g","num_player":"1"}`))
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }))
	if _, err := client.Describe(context.Background(), GameInfo{}, "code"); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 {
		t.Fatalf("expected one backoff sleep, got %v", slept)
	}
}

func TestDescribeDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "bad", BaseURL: server.URL, Model: "m"},
		WithSleeper(func(time.Duration) {}))
	if _, err := client.Describe(context.Background(), GameInfo{}, "code"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(completionBody(t, `{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, Model: "m"})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestDecodeJSONWithLeadingProse(t *testing.T) {
	var parsed Description
	content := `Here you go: {"description":"d","genre":"g","num_player":"1"}`
	if err := DecodeJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if parsed.Genre != "g" {
		t.Fatalf("Genre = %q", parsed.Genre)
	}
}

func TestDecodeJSONEmpty(t *testing.T) {
	var parsed Description
	if err := DecodeJSON("  ", &parsed); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
