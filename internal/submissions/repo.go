package submissions

import (
	"context"
	"time"
)

// Repo defines persistence operations for submissions. The Mark* methods are
// the transition guards: each succeeds only from the expected prior state, so
// the monotonic-transition invariant holds no matter how callers race.
type Repo interface {
	Create(ctx context.Context, submission Submission) error
	GetByID(ctx context.Context, submissionID string) (Submission, error)

	// MarkAnalyzing moves created -> submitted -> analyzing in one step and
	// returns the updated submission. Any other prior state yields
	// ErrAlreadySubmitted.
	MarkAnalyzing(ctx context.Context, submissionID string, submittedAt time.Time) (Submission, error)

	// MarkSucceeded moves analyzing -> succeeded and records the report id.
	// Any other prior state yields ErrAlreadyTerminal and leaves the row
	// untouched, which is how late engine results get discarded.
	MarkSucceeded(ctx context.Context, submissionID, reportID string, completedAt time.Time) error

	// MarkFailed moves analyzing -> failed and records the error kind, with
	// the same guard semantics as MarkSucceeded.
	MarkFailed(ctx context.Context, submissionID, errorKind string, completedAt time.Time) error

	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Submission, error)
}
