package reports

// View is the read-only query surface the presentation layer renders from.
// It never mutates the underlying report; display code goes through a View
// rather than reading Report fields directly so the sorting and derivation
// invariants stay in one place.
type View struct {
	report Report
}

// NewView wraps a report for rendering.
func NewView(r Report) View {
	return View{report: r}
}

// VerdictLabel returns the display label for the report's verdict.
func (v View) VerdictLabel() string {
	return v.report.Verdict.Label()
}

// Score returns the credibility score in [0,100]; lower is less credible.
func (v View) Score() int {
	return v.report.Score
}

// Content returns the analyzed excerpt or reference.
func (v View) Content() string {
	return v.report.Content
}

// Summary returns the human-readable assessment.
func (v View) Summary() string {
	return v.report.Summary
}

// Explanation returns the simplified-language rephrasing of the summary.
func (v View) Explanation() string {
	return v.report.Explanation
}

// Sources returns the cross-referenced sources in engine insertion order.
func (v View) Sources() []Source {
	return append([]Source(nil), v.report.Sources...)
}

// TopTechniques returns at most n techniques, highest confidence first.
// If fewer than n exist, all are returned.
func (v View) TopTechniques(n int) []Technique {
	return topN(v.report.Techniques, n)
}

// TopSimilarities returns at most n similarity matches, highest score first.
// If fewer than n exist, all are returned.
func (v View) TopSimilarities(n int) []Similarity {
	return topN(v.report.Similarities, n)
}

// UnmatchedHighReputationSources returns the high-reputation sources the
// engine checked but found no match in, in insertion order. These are the
// strongest signal that a claim lacks credible backing.
func (v View) UnmatchedHighReputationSources() []Source {
	var out []Source
	for _, s := range v.report.Sources {
		if s.Reputation == ReputationHigh && !s.Matched {
			out = append(out, s)
		}
	}
	return out
}

// TechniqueCount returns how many techniques were detected.
func (v View) TechniqueCount() int {
	return len(v.report.Techniques)
}

// SimilarityCount returns how many similar known patterns were found.
func (v View) SimilarityCount() int {
	return len(v.report.Similarities)
}

func topN[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	return append([]T(nil), items[:n]...)
}
