package reports

import (
	"sort"
	"time"
)

// New builds a Report from an engine draft, applying the model invariants:
// verdict parsing is total, scores are clamped to [0,100], techniques and
// similarities are sorted descending by their score field, and source order
// is preserved as-is.
func New(id string, draft Draft, createdAt time.Time) Report {
	sources := make([]Source, len(draft.Sources))
	for i, s := range draft.Sources {
		sources[i] = Source{
			Name:       s.Name,
			Reputation: NormalizeReputation(string(s.Reputation)),
			Matched:    s.Matched,
		}
	}

	techniques := make([]Technique, len(draft.Techniques))
	for i, tq := range draft.Techniques {
		tq.Confidence = clampScore(tq.Confidence)
		techniques[i] = tq
	}
	sort.SliceStable(techniques, func(i, j int) bool {
		return techniques[i].Confidence > techniques[j].Confidence
	})

	similarities := make([]Similarity, len(draft.Similarities))
	for i, sim := range draft.Similarities {
		sim.Score = clampScore(sim.Score)
		similarities[i] = sim
	}
	sort.SliceStable(similarities, func(i, j int) bool {
		return similarities[i].Score > similarities[j].Score
	})

	return Report{
		ID:           id,
		Verdict:      ParseVerdict(draft.Verdict),
		Score:        clampScore(draft.Score),
		Content:      draft.Content,
		Summary:      draft.Summary,
		Explanation:  draft.Explanation,
		Sources:      sources,
		Techniques:   techniques,
		Similarities: similarities,
		CreatedAt:    createdAt.UTC(),
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
