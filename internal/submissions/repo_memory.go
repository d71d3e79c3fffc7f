package submissions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores submissions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Submission
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Submission),
		byUser: make(map[string][]string),
	}
}

// Create stores the submission.
func (r *MemoryRepo) Create(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[submission.ID] = submission
	r.byUser[submission.UserID] = append(r.byUser[submission.UserID], submission.ID)
	return nil
}

// GetByID returns a submission by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, submissionID string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	submission, ok := r.byID[submissionID]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return submission, nil
}

// MarkAnalyzing transitions created -> analyzing, recording the submit time.
func (r *MemoryRepo) MarkAnalyzing(ctx context.Context, submissionID string, submittedAt time.Time) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	submission, ok := r.byID[submissionID]
	if !ok {
		return Submission{}, ErrNotFound
	}
	if submission.Status != StatusCreated {
		return Submission{}, ErrAlreadySubmitted
	}
	submittedAt = submittedAt.UTC()
	submission.Status = StatusAnalyzing
	submission.SubmittedAt = &submittedAt
	r.byID[submissionID] = submission
	return submission, nil
}

// MarkSucceeded transitions analyzing -> succeeded with the report id.
func (r *MemoryRepo) MarkSucceeded(ctx context.Context, submissionID, reportID string, completedAt time.Time) error {
	return r.complete(ctx, submissionID, func(s *Submission) {
		s.Status = StatusSucceeded
		s.ReportID = reportID
	}, completedAt)
}

// MarkFailed transitions analyzing -> failed with the error kind.
func (r *MemoryRepo) MarkFailed(ctx context.Context, submissionID, errorKind string, completedAt time.Time) error {
	return r.complete(ctx, submissionID, func(s *Submission) {
		s.Status = StatusFailed
		s.ErrorKind = errorKind
	}, completedAt)
}

func (r *MemoryRepo) complete(ctx context.Context, submissionID string, apply func(*Submission), completedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	submission, ok := r.byID[submissionID]
	if !ok {
		return ErrNotFound
	}
	if submission.Status != StatusAnalyzing {
		return ErrAlreadyTerminal
	}
	apply(&submission)
	completedAt = completedAt.UTC()
	submission.CompletedAt = &completedAt
	r.byID[submissionID] = submission
	return nil
}

// ListByUser returns submissions for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	userSubmissions := make([]Submission, 0, len(ids))
	for _, id := range ids {
		userSubmissions = append(userSubmissions, r.byID[id])
	}
	r.mu.RUnlock()

	if len(userSubmissions) == 0 || offset >= len(userSubmissions) {
		return []Submission{}, nil
	}

	sort.Slice(userSubmissions, func(i, j int) bool {
		return userSubmissions[i].CreatedAt.After(userSubmissions[j].CreatedAt)
	})

	end := len(userSubmissions)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return userSubmissions[offset:end], nil
}
