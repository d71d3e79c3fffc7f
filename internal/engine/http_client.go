package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"truthcheck-backend/internal/reports"
)

// HTTPEngine calls a remote analysis engine over HTTP.
type HTTPEngine struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPEngine builds an engine client for the given base URL. The per-call
// deadline is the caller's context; no client-level timeout is set so the
// submission workflow stays in control of expiry.
func NewHTTPEngine(baseURL, apiKey string) (*HTTPEngine, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("engine base url is required")
	}
	client := resty.New().SetBaseURL(baseURL)
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &HTTPEngine{client: client, baseURL: baseURL}, nil
}

type analyzeResponse struct {
	Verdict     string `json:"verdict"`
	Score       int    `json:"score"`
	Content     string `json:"content"`
	Summary     string `json:"summary"`
	Explanation string `json:"explanation"`
	Sources     []struct {
		Name       string `json:"name"`
		Reputation string `json:"reputation"`
		Matched    bool   `json:"matched"`
	} `json:"sources"`
	Techniques []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Confidence  int    `json:"confidence"`
	} `json:"techniques"`
	Similarities []struct {
		ExampleContent string `json:"exampleContent"`
		Score          int    `json:"similarityScore"`
	} `json:"similarities"`
}

// Analyze posts the input to the engine's analyze endpoint and maps the
// response into a report draft. Failures are returned as typed engine
// errors: 4xx means the engine rejected the content, 5xx and transport
// errors mean it is unavailable, and deadline expiry is a timeout.
func (e *HTTPEngine) Analyze(ctx context.Context, in Input) (reports.Draft, error) {
	var out analyzeResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		Post("/v1/analyze")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return reports.Draft{}, &Error{Kind: KindTimeout, Msg: "analyze request timed out", Err: err}
		}
		if errors.Is(err, context.Canceled) {
			return reports.Draft{}, err
		}
		return reports.Draft{}, &Error{Kind: KindUnavailable, Msg: "analyze request failed", Err: err}
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusOK:
	case status >= 400 && status < 500:
		return reports.Draft{}, &Error{Kind: KindRejected, Msg: fmt.Sprintf("engine rejected content with status %d", status)}
	default:
		return reports.Draft{}, &Error{Kind: KindUnavailable, Msg: fmt.Sprintf("unexpected engine status %d", status)}
	}

	draft := reports.Draft{
		Verdict:     out.Verdict,
		Score:       out.Score,
		Content:     out.Content,
		Summary:     out.Summary,
		Explanation: out.Explanation,
	}
	for _, s := range out.Sources {
		draft.Sources = append(draft.Sources, reports.Source{
			Name:       s.Name,
			Reputation: reports.Reputation(s.Reputation),
			Matched:    s.Matched,
		})
	}
	for _, tq := range out.Techniques {
		draft.Techniques = append(draft.Techniques, reports.Technique{
			Name:        tq.Name,
			Description: tq.Description,
			Confidence:  tq.Confidence,
		})
	}
	for _, sim := range out.Similarities {
		draft.Similarities = append(draft.Similarities, reports.Similarity{
			ExampleContent: sim.ExampleContent,
			Score:          sim.Score,
		})
	}
	return draft, nil
}

var _ Engine = (*HTTPEngine)(nil)
