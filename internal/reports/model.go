package reports

import "time"

// Reputation classifies a cross-referenced source's standing.
type Reputation string

const (
	ReputationLow    Reputation = "low"
	ReputationMedium Reputation = "medium"
	ReputationHigh   Reputation = "high"
)

// NormalizeReputation maps arbitrary engine output onto a known tier.
// Unknown values land on medium rather than over- or under-stating a source.
func NormalizeReputation(raw string) Reputation {
	switch Reputation(raw) {
	case ReputationLow, ReputationMedium, ReputationHigh:
		return Reputation(raw)
	default:
		return ReputationMedium
	}
}

// Source is one piece of cross-referenced evidence. Order is the engine's
// insertion order and is never re-sorted.
type Source struct {
	Name       string     `json:"name"`
	Reputation Reputation `json:"reputation"`
	Matched    bool       `json:"matched"`
}

// Technique is a detected persuasion or misinformation pattern.
type Technique struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Confidence  int    `json:"confidence"`
}

// Similarity is a known scam or misinformation example the content resembles.
type Similarity struct {
	ExampleContent string `json:"exampleContent"`
	Score          int    `json:"similarityScore"`
}

// Report is the immutable result of a completed analysis.
//
// Invariants, enforced by New: Score and all Confidence/Similarity values lie
// in [0,100]; Techniques and Similarities are sorted descending by their score
// field; Verdict is always one of the known variants.
type Report struct {
	ID           string       `json:"id"`
	Verdict      Verdict      `json:"verdict"`
	Score        int          `json:"score"`
	Content      string       `json:"content"`
	Summary      string       `json:"summary"`
	Explanation  string       `json:"explanation"`
	Sources      []Source     `json:"sources"`
	Techniques   []Technique  `json:"techniques"`
	Similarities []Similarity `json:"similarities"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Draft is the raw material for a report as produced by an analysis engine,
// before the model invariants are applied.
type Draft struct {
	Verdict      string
	Score        int
	Content      string
	Summary      string
	Explanation  string
	Sources      []Source
	Techniques   []Technique
	Similarities []Similarity
}
