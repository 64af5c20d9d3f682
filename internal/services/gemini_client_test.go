package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGeminiClient(t *testing.T, serverURL string) GenerationClient {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", serverURL)
	t.Setenv("GEMINI_MODEL", "gemini-pro")
	client, err := NewGeminiClient(testLogger(t))
	if err != nil {
		t.Fatalf("NewGeminiClient: %v", err)
	}
	return client
}

func TestGeminiClientGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"## CASE OVERVIEW"},{"text":"\nDetails follow."}]}}]}`)
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv.URL)
	text, err := client.Generate(context.Background(), "analyze this case", SimpleSamplingParams())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "## CASE OVERVIEW\nDetails follow." {
		t.Fatalf("unexpected text: %q", text)
	}

	if gotPath != "/v1beta/models/gemini-pro:generateContent" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected key: %s", gotKey)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 ||
		gotReq.Contents[0].Parts[0].Text != "analyze this case" {
		t.Fatalf("unexpected contents: %+v", gotReq.Contents)
	}
	cfg := gotReq.GenerationConfig
	if cfg.Temperature != 0.7 || cfg.TopK != 40 || cfg.TopP != 0.95 || cfg.MaxOutputTokens != 3072 {
		t.Fatalf("sampling params not forwarded: %+v", cfg)
	}
}

func TestGeminiClientNonSuccessStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv.URL)
	_, err := client.Generate(context.Background(), "p", InteractiveSamplingParams())
	if err == nil {
		t.Fatal("expected error on 503")
	}
	var gse *GenerationServiceError
	if !errors.As(err, &gse) {
		t.Fatalf("got %T, want *GenerationServiceError", err)
	}
	if gse.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d, want 503", gse.StatusCode)
	}
	// The adapter never retries on its own.
	if calls != 1 {
		t.Fatalf("calls=%d, want 1", calls)
	}
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	client := newTestGeminiClient(t, srv.URL)
	_, err := client.Generate(context.Background(), "p", SimpleSamplingParams())
	if !IsGenerationServiceError(err) {
		t.Fatalf("got %v, want generation service error", err)
	}
}

func TestGeminiClientRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := NewGeminiClient(testLogger(t)); err == nil {
		t.Fatal("expected error without GEMINI_API_KEY")
	}
}
