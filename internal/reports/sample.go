package reports

import "time"

// SampleID is the id under which the demo report is seeded in dev.
const SampleID = "sample"

// SampleReport returns the demo report seeded into dev environments so the
// report screen can be exercised without a live engine.
func SampleReport(createdAt time.Time) Report {
	return New(SampleID, Draft{
		Verdict: "misleading",
		Score:   15,
		Content: "Breaking: Scientists discover cure for all diseases using this one simple trick!",
		Summary: "This content contains multiple red flags typical of medical misinformation including exaggerated claims, clickbait language, and lack of credible sources.",
		Explanation: "This headline uses words like \"simple trick\" and makes impossible claims. Real scientific breakthroughs are shared through proper medical journals, not clickbait articles.",
		Sources: []Source{
			{Name: "Medical Journal Database", Reputation: ReputationHigh, Matched: false},
			{Name: "WHO Official Statements", Reputation: ReputationHigh, Matched: false},
			{Name: "Clickbait Pattern Database", Reputation: ReputationMedium, Matched: true},
		},
		Techniques: []Technique{
			{Name: "Clickbait Headlines", Description: "Uses sensational language to attract clicks", Confidence: 95},
			{Name: "False Authority", Description: "Claims scientific backing without evidence", Confidence: 88},
			{Name: "Too Good to be True", Description: "Makes unrealistic promises", Confidence: 92},
		},
		Similarities: []Similarity{
			{ExampleContent: "Doctors hate this one weird trick...", Score: 87},
			{ExampleContent: "Scientists shocked by simple cure...", Score: 79},
			{ExampleContent: "This one trick cures everything...", Score: 91},
		},
	}, createdAt)
}
