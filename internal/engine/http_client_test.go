package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newEngineForServer(t *testing.T, handler http.HandlerFunc) *HTTPEngine {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	eng, err := NewHTTPEngine(server.URL, "test-key")
	if err != nil {
		t.Fatalf("NewHTTPEngine: %v", err)
	}
	return eng
}

func TestAnalyzeMapsResponse(t *testing.T) {
	var gotAuth string
	var gotBody Input
	eng := newEngineForServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"verdict": "misleading",
			"score": 15,
			"summary": "red flags",
			"sources": [{"name": "WHO", "reputation": "high", "matched": false}],
			"techniques": [{"name": "Clickbait", "confidence": 95}],
			"similarities": [{"exampleContent": "one weird trick", "similarityScore": 87}]
		}`))
	})

	draft, err := eng.Analyze(context.Background(), Input{Modality: "text", TextContent: "claim"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.Modality != "text" || gotBody.TextContent != "claim" {
		t.Fatalf("unexpected request body %+v", gotBody)
	}
	if draft.Verdict != "misleading" || draft.Score != 15 {
		t.Fatalf("unexpected draft %+v", draft)
	}
	if len(draft.Sources) != 1 || draft.Sources[0].Name != "WHO" || draft.Sources[0].Matched {
		t.Fatalf("unexpected sources %+v", draft.Sources)
	}
	if len(draft.Techniques) != 1 || draft.Techniques[0].Confidence != 95 {
		t.Fatalf("unexpected techniques %+v", draft.Techniques)
	}
	if len(draft.Similarities) != 1 || draft.Similarities[0].Score != 87 {
		t.Fatalf("unexpected similarities %+v", draft.Similarities)
	}
}

func TestAnalyzeRejectedOn4xx(t *testing.T) {
	eng := newEngineForServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	_, err := eng.Analyze(context.Background(), Input{Modality: "text", TextContent: "claim"})
	if Classify(err) != KindRejected {
		t.Fatalf("expected rejected, got %v (%v)", Classify(err), err)
	}
}

func TestAnalyzeUnavailableOn5xx(t *testing.T) {
	eng := newEngineForServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := eng.Analyze(context.Background(), Input{Modality: "text", TextContent: "claim"})
	if Classify(err) != KindUnavailable {
		t.Fatalf("expected unavailable, got %v (%v)", Classify(err), err)
	}
}

func TestAnalyzeTimeout(t *testing.T) {
	eng := newEngineForServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := eng.Analyze(ctx, Input{Modality: "text", TextContent: "claim"})
	if Classify(err) != KindTimeout {
		t.Fatalf("expected timeout, got %v (%v)", Classify(err), err)
	}
}

func TestAnalyzeCancelPassesThrough(t *testing.T) {
	started := make(chan struct{})
	eng := newEngineForServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := eng.Analyze(ctx, Input{Modality: "text", TextContent: "claim"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewHTTPEngineRequiresBaseURL(t *testing.T) {
	if _, err := NewHTTPEngine("   ", ""); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestClassifyDefaultsToUnavailable(t *testing.T) {
	if got := Classify(errors.New("boom")); got != KindUnavailable {
		t.Fatalf("expected unavailable, got %v", got)
	}
}
