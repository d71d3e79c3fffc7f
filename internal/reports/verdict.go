package reports

// Verdict is the categorical credibility outcome of an analysis.
type Verdict string

const (
	VerdictTrue        Verdict = "true"
	VerdictMisleading  Verdict = "misleading"
	VerdictUnverified  Verdict = "unverified"
	VerdictNeedsReview Verdict = "needs_review"
)

// ParseVerdict maps an engine-provided verdict string onto a known variant.
// The mapping is total: anything outside the recognized set becomes
// needs_review, so no verdict is ever unhandled.
func ParseVerdict(raw string) Verdict {
	switch Verdict(raw) {
	case VerdictTrue, VerdictMisleading, VerdictUnverified:
		return Verdict(raw)
	default:
		return VerdictNeedsReview
	}
}

// Label returns the display label for the verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictTrue:
		return "Verified True"
	case VerdictMisleading:
		return "Misleading"
	case VerdictUnverified:
		return "Unverified"
	default:
		return "Needs Review"
	}
}
