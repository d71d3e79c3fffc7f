package submissions

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"truthcheck-backend/internal/engine"
	"truthcheck-backend/internal/queue"
	"truthcheck-backend/internal/quota"
	"truthcheck-backend/internal/reports"
	"truthcheck-backend/internal/shared/metrics"
	"truthcheck-backend/internal/shared/telemetry"
)

const defaultEngineTimeout = 60 * time.Second

// Service contains business logic for submissions.
type Service struct {
	Repo    Repo
	Reports reports.Repo
	Engine  engine.Engine
	Quota   *quota.Service

	// Jobs, when set, routes analysis through the queue worker instead of
	// an in-process goroutine.
	Jobs queue.Client

	// EngineTimeout bounds a single engine call. Zero means the default.
	EngineTimeout time.Duration

	cancelMu sync.Mutex
	cancels  map[string]context.CancelFunc
}

// Create records a new submission from a normalized payload.
func (s *Service) Create(ctx context.Context, userID string, payload SubmissionPayload) (Submission, error) {
	if userID == "" {
		return Submission{}, errors.New("userID is required")
	}
	if payload.Modality == "" {
		return Submission{}, ErrUnknownModality
	}

	if s.Quota != nil {
		ok, _, err := s.Quota.CanConsume(ctx, userID, 1)
		if err != nil {
			return Submission{}, err
		}
		if !ok {
			return Submission{}, quota.ErrLimitReached
		}
	}

	submission := Submission{
		ID:        uuid.NewString(),
		UserID:    userID,
		Payload:   payload,
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, submission); err != nil {
		return Submission{}, err
	}

	if s.Quota != nil {
		if _, err := s.Quota.Consume(ctx, userID, 1); err != nil {
			return Submission{}, err
		}
	}

	return submission, nil
}

// Submit moves a created submission into analysis. A second Submit on the
// same submission returns ErrAlreadySubmitted and triggers nothing.
func (s *Service) Submit(ctx context.Context, submissionID string) (Submission, error) {
	if submissionID == "" {
		return Submission{}, errors.New("submissionID is required")
	}

	submission, err := s.Repo.MarkAnalyzing(ctx, submissionID, time.Now().UTC())
	if err != nil {
		return Submission{}, err
	}

	metrics.IncSubmissionStarted()
	telemetry.Info("submission.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           submission.UserID,
		"submission_id":     submission.ID,
		"modality":          string(submission.Payload.Modality),
		"status":            string(StatusAnalyzing),
		"status_transition": "created->analyzing",
	})

	if s.Jobs != nil {
		msg := queue.Message{
			SubmissionID: submission.ID,
			RequestID:    requestIDFromContext(ctx),
			EnqueuedAt:   time.Now().UTC(),
			Version:      queue.MessageVersion,
		}
		if err := s.Jobs.Send(ctx, msg); err != nil {
			s.failSubmission(ctx, submission, ErrorKindEngineUnavailable, nil)
			return Submission{}, fmt.Errorf("enqueue submission: %w", err)
		}
		return submission, nil
	}

	go func() {
		_ = s.analyze(backgroundWithRequestID(ctx), submission.ID)
	}()
	return submission, nil
}

// Process runs analysis for an already-submitted submission. The queue
// worker calls this; errors mean retryable infrastructure failure.
func (s *Service) Process(ctx context.Context, submissionID string) error {
	return s.analyze(ctx, submissionID)
}

// Get returns a submission by ID.
func (s *Service) Get(ctx context.Context, submissionID string) (Submission, error) {
	if submissionID == "" {
		return Submission{}, errors.New("submissionID is required")
	}
	return s.Repo.GetByID(ctx, submissionID)
}

// List returns submissions for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Submission, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Cancel moves an analyzing submission to failed/CANCELLED and interrupts
// the in-flight engine call if this process owns it. Submissions that are
// not analyzing are not cancellable.
func (s *Service) Cancel(ctx context.Context, submissionID string) (Submission, error) {
	if submissionID == "" {
		return Submission{}, errors.New("submissionID is required")
	}
	submission, err := s.Repo.GetByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}
	if submission.Status != StatusAnalyzing {
		return submission, ErrNotCancellable
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.MarkFailed(ctx, submissionID, ErrorKindCancelled, completedAt); err != nil {
		if errors.Is(err, ErrAlreadyTerminal) {
			latest, getErr := s.Repo.GetByID(ctx, submissionID)
			if getErr != nil {
				return Submission{}, getErr
			}
			return latest, ErrNotCancellable
		}
		return Submission{}, err
	}

	// The terminal state is already recorded, so a late engine result will
	// bounce off the repo guard even if this signal never lands.
	s.cancelMu.Lock()
	if cancel, ok := s.cancels[submissionID]; ok {
		cancel()
	}
	s.cancelMu.Unlock()

	metrics.IncSubmissionCancelled()
	telemetry.Info("submission.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           submission.UserID,
		"submission_id":     submission.ID,
		"status":            string(StatusFailed),
		"status_transition": "analyzing->failed",
		"error_kind":        ErrorKindCancelled,
	})

	return s.Repo.GetByID(ctx, submissionID)
}

func (s *Service) analyze(ctx context.Context, submissionID string) (err error) {
	var submission Submission
	defer func() {
		if r := recover(); r != nil {
			s.failSubmission(ctx, submission, ErrorKindEngineUnavailable, nil)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	submission, err = s.Repo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission lookup id=%s: %w", submissionID, err)
	}
	if submission.Status != StatusAnalyzing {
		telemetry.Info("submission.analyze.skip", map[string]any{
			"request_id":    requestIDFromContext(ctx),
			"submission_id": submissionID,
			"status":        string(submission.Status),
		})
		return nil
	}
	if s.Engine == nil {
		s.failSubmission(ctx, submission, ErrorKindEngineUnavailable, nil)
		return nil
	}

	startedAt := time.Now().UTC()
	timeout := s.EngineTimeout
	if timeout <= 0 {
		timeout = defaultEngineTimeout
	}
	engineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	s.registerCancel(submissionID, cancel)
	defer s.releaseCancel(submissionID)

	draft, engineErr := s.Engine.Analyze(engineCtx, engineInput(submission.Payload))
	if engineErr != nil {
		s.failSubmission(ctx, submission, errorKindFor(engineErr), &startedAt)
		return nil
	}

	if draft.Content == "" {
		draft.Content = submission.Payload.DisplayContent()
	}
	completedAt := time.Now().UTC()
	report := reports.New(uuid.NewString(), draft, completedAt)
	if err := s.Reports.Create(ctx, report); err != nil {
		s.failSubmission(ctx, submission, ErrorKindEngineUnavailable, &startedAt)
		return fmt.Errorf("store report: %w", err)
	}

	if err := s.Repo.MarkSucceeded(ctx, submissionID, report.ID, completedAt); err != nil {
		if errors.Is(err, ErrAlreadyTerminal) {
			s.discardLateReport(ctx, submission, report.ID)
			return nil
		}
		return fmt.Errorf("mark succeeded id=%s: %w", submissionID, err)
	}

	metrics.IncSubmissionSucceeded()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("submission.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           submission.UserID,
		"submission_id":     submission.ID,
		"report_id":         report.ID,
		"status":            string(StatusSucceeded),
		"status_transition": "analyzing->succeeded",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

func (s *Service) failSubmission(ctx context.Context, submission Submission, errorKind string, startedAt *time.Time) {
	completedAt := time.Now().UTC()
	if err := s.Repo.MarkFailed(context.Background(), submission.ID, errorKind, completedAt); err != nil {
		if errors.Is(err, ErrAlreadyTerminal) {
			telemetry.Info("submission.result.discarded", map[string]any{
				"request_id":    requestIDFromContext(ctx),
				"submission_id": submission.ID,
				"error_kind":    errorKind,
			})
			return
		}
		telemetry.Error("submission.fail.update", map[string]any{
			"request_id":    requestIDFromContext(ctx),
			"submission_id": submission.ID,
			"error":         err.Error(),
		})
		return
	}
	metrics.IncSubmissionFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("submission.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           submission.UserID,
		"submission_id":     submission.ID,
		"status":            string(StatusFailed),
		"status_transition": "analyzing->failed",
		"error_kind":        errorKind,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

// discardLateReport removes a report whose submission reached a terminal
// state before the engine finished, usually after a cancel.
func (s *Service) discardLateReport(ctx context.Context, submission Submission, reportID string) {
	if err := s.Reports.Delete(context.Background(), reportID); err != nil && !errors.Is(err, reports.ErrNotFound) {
		telemetry.Error("submission.report.orphaned", map[string]any{
			"submission_id": submission.ID,
			"report_id":     reportID,
			"error":         err.Error(),
		})
	}
	telemetry.Info("submission.result.discarded", map[string]any{
		"request_id":    requestIDFromContext(ctx),
		"submission_id": submission.ID,
		"report_id":     reportID,
	})
}

func (s *Service) registerCancel(submissionID string, cancel context.CancelFunc) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancels == nil {
		s.cancels = make(map[string]context.CancelFunc)
	}
	s.cancels[submissionID] = cancel
}

func (s *Service) releaseCancel(submissionID string) {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	delete(s.cancels, submissionID)
}

func engineInput(payload SubmissionPayload) engine.Input {
	input := engine.Input{
		Modality:    string(payload.Modality),
		TextContent: payload.TextContent,
		URLContent:  payload.URLContent,
	}
	if payload.File != nil {
		input.FileKey = payload.File.StorageKey
		input.MimeType = payload.File.MimeType
	}
	return input
}

func errorKindFor(err error) string {
	if errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindCancelled
	}
	switch engine.Classify(err) {
	case engine.KindTimeout:
		return ErrorKindEngineTimeout
	case engine.KindRejected:
		return ErrorKindEngineRejected
	default:
		return ErrorKindEngineUnavailable
	}
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}
