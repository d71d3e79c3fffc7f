package submissions

import "time"

// Status is a submission's position in its lifecycle. Transitions are
// monotonic: created -> submitted -> analyzing -> {succeeded, failed}, and a
// submission never leaves a terminal state.
type Status string

const (
	StatusCreated   Status = "created"
	StatusSubmitted Status = "submitted"
	StatusAnalyzing Status = "analyzing"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Submission is one in-flight or completed analysis request.
type Submission struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Payload     SubmissionPayload `json:"payload"`
	Status      Status            `json:"status"`
	ReportID    string            `json:"reportId,omitempty"`
	ErrorKind   string            `json:"errorKind,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	SubmittedAt *time.Time        `json:"submittedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
}
