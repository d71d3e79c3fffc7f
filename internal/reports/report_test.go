package reports

import (
	"testing"
	"time"
)

func TestParseVerdictIsTotal(t *testing.T) {
	cases := []struct {
		raw  string
		want Verdict
	}{
		{"true", VerdictTrue},
		{"misleading", VerdictMisleading},
		{"unverified", VerdictUnverified},
		{"needs_review", VerdictNeedsReview},
		{"unknown", VerdictNeedsReview},
		{"", VerdictNeedsReview},
		{"TRUE", VerdictNeedsReview},
		{"satire", VerdictNeedsReview},
	}
	for _, tc := range cases {
		if got := ParseVerdict(tc.raw); got != tc.want {
			t.Fatalf("ParseVerdict(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestVerdictLabels(t *testing.T) {
	cases := map[Verdict]string{
		VerdictTrue:        "Verified True",
		VerdictMisleading:  "Misleading",
		VerdictUnverified:  "Unverified",
		VerdictNeedsReview: "Needs Review",
	}
	for verdict, want := range cases {
		if got := verdict.Label(); got != want {
			t.Fatalf("Label(%q) = %q, want %q", verdict, got, want)
		}
	}
}

func TestNewAppliesInvariants(t *testing.T) {
	createdAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	report := New("report-1", Draft{
		Verdict: "hoax",
		Score:   150,
		Techniques: []Technique{
			{Name: "b", Confidence: 40},
			{Name: "a", Confidence: 90},
			{Name: "c", Confidence: -5},
		},
		Similarities: []Similarity{
			{ExampleContent: "x", Score: 10},
			{ExampleContent: "y", Score: 200},
		},
		Sources: []Source{
			{Name: "first", Reputation: "stellar", Matched: true},
			{Name: "second", Reputation: ReputationLow, Matched: false},
		},
	}, createdAt)

	if report.Verdict != VerdictNeedsReview {
		t.Fatalf("unknown verdict should map to needs_review, got %q", report.Verdict)
	}
	if report.Score != 100 {
		t.Fatalf("score should clamp to 100, got %d", report.Score)
	}
	if report.Techniques[0].Name != "a" || report.Techniques[1].Name != "b" || report.Techniques[2].Name != "c" {
		t.Fatalf("techniques not sorted by confidence: %+v", report.Techniques)
	}
	if report.Techniques[2].Confidence != 0 {
		t.Fatalf("confidence should clamp to 0, got %d", report.Techniques[2].Confidence)
	}
	if report.Similarities[0].ExampleContent != "y" || report.Similarities[0].Score != 100 {
		t.Fatalf("similarities not sorted and clamped: %+v", report.Similarities)
	}
	if report.Sources[0].Reputation != ReputationMedium {
		t.Fatalf("unknown reputation should map to medium, got %q", report.Sources[0].Reputation)
	}
	if report.Sources[0].Name != "first" || report.Sources[1].Name != "second" {
		t.Fatal("source insertion order must be preserved")
	}
}

func TestNewSortIsStable(t *testing.T) {
	report := New("report-2", Draft{
		Techniques: []Technique{
			{Name: "first", Confidence: 80},
			{Name: "second", Confidence: 80},
			{Name: "third", Confidence: 80},
		},
	}, time.Now())

	if report.Techniques[0].Name != "first" || report.Techniques[1].Name != "second" || report.Techniques[2].Name != "third" {
		t.Fatalf("equal confidences must keep insertion order: %+v", report.Techniques)
	}
}

func TestViewTopNAndDerivations(t *testing.T) {
	report := SampleReport(time.Now().UTC())
	view := NewView(report)

	if view.VerdictLabel() != "Misleading" {
		t.Fatalf("unexpected label %q", view.VerdictLabel())
	}
	if view.Score() != 15 {
		t.Fatalf("unexpected score %d", view.Score())
	}

	top := view.TopTechniques(2)
	if len(top) != 2 {
		t.Fatalf("expected 2 techniques, got %d", len(top))
	}
	if top[0].Name != "Clickbait Headlines" || top[0].Confidence != 95 {
		t.Fatalf("unexpected top technique %+v", top[0])
	}
	if top[1].Confidence != 92 {
		t.Fatalf("expected second-highest confidence 92, got %d", top[1].Confidence)
	}

	if got := view.TopTechniques(10); len(got) != 3 {
		t.Fatalf("asking for more than exist should return all, got %d", len(got))
	}
	if got := view.TopTechniques(0); len(got) != 0 {
		t.Fatalf("asking for zero should return none, got %d", len(got))
	}

	sims := view.TopSimilarities(1)
	if len(sims) != 1 || sims[0].Score != 91 {
		t.Fatalf("unexpected top similarity %+v", sims)
	}

	unmatched := view.UnmatchedHighReputationSources()
	if len(unmatched) != 2 {
		t.Fatalf("expected 2 unmatched high-reputation sources, got %d", len(unmatched))
	}
	if unmatched[0].Name != "Medical Journal Database" || unmatched[1].Name != "WHO Official Statements" {
		t.Fatalf("unexpected unmatched sources %+v", unmatched)
	}
}

func TestViewDoesNotExposeInternalSlices(t *testing.T) {
	report := SampleReport(time.Now().UTC())
	view := NewView(report)

	sources := view.Sources()
	sources[0].Name = "mutated"
	if view.Sources()[0].Name == "mutated" {
		t.Fatal("Sources must return a copy")
	}

	top := view.TopTechniques(1)
	top[0].Confidence = 1
	if view.TopTechniques(1)[0].Confidence == 1 {
		t.Fatal("TopTechniques must return a copy")
	}
}
