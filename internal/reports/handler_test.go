package reports_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"truthcheck-backend/internal/bootstrap"
	"truthcheck-backend/internal/reports"
	"truthcheck-backend/internal/shared/config"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func getReport(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Guest-Id", "test-guest")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGetSampleReport(t *testing.T) {
	router := newTestRouter(t)

	resp := getReport(t, router, "/api/v1/reports/"+reports.SampleID)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		Verdict      string `json:"verdict"`
		VerdictLabel string `json:"verdictLabel"`
		Score        int    `json:"score"`
		Techniques   []struct {
			Name       string `json:"name"`
			Confidence int    `json:"confidence"`
		} `json:"techniques"`
		Similarities []struct {
			Score int `json:"similarityScore"`
		} `json:"similarities"`
		Unmatched []struct {
			Name string `json:"name"`
		} `json:"unmatchedHighReputationSources"`
		Stats struct {
			TechniquesFound int `json:"techniquesFound"`
			SimilarPatterns int `json:"similarPatterns"`
		} `json:"stats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.Verdict != "misleading" || body.VerdictLabel != "Misleading" {
		t.Fatalf("unexpected verdict %q / %q", body.Verdict, body.VerdictLabel)
	}
	if body.Score != 15 {
		t.Fatalf("unexpected score %d", body.Score)
	}
	if len(body.Techniques) != 3 || body.Techniques[0].Confidence != 95 {
		t.Fatalf("unexpected techniques %+v", body.Techniques)
	}
	if len(body.Similarities) != 3 || body.Similarities[0].Score != 91 {
		t.Fatalf("unexpected similarities %+v", body.Similarities)
	}
	if len(body.Unmatched) != 2 {
		t.Fatalf("expected 2 unmatched high-reputation sources, got %d", len(body.Unmatched))
	}
	if body.Stats.TechniquesFound != 3 || body.Stats.SimilarPatterns != 3 {
		t.Fatalf("unexpected stats %+v", body.Stats)
	}
}

func TestGetReportTopNQuery(t *testing.T) {
	router := newTestRouter(t)

	resp := getReport(t, router, "/api/v1/reports/"+reports.SampleID+"?topTechniques=1&topSimilarities=2")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Techniques   []json.RawMessage `json:"techniques"`
		Similarities []json.RawMessage `json:"similarities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Techniques) != 1 {
		t.Fatalf("expected 1 technique, got %d", len(body.Techniques))
	}
	if len(body.Similarities) != 2 {
		t.Fatalf("expected 2 similarities, got %d", len(body.Similarities))
	}
}

func TestGetReportNotFound(t *testing.T) {
	router := newTestRouter(t)

	resp := getReport(t, router, "/api/v1/reports/missing")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
