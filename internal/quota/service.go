package quota

import "context"

type store interface {
	Get(ctx context.Context, userID string) (Allowance, error)
	EnsurePeriod(ctx context.Context, userID string) (Allowance, error)
	Consume(ctx context.Context, userID string, n int) (Allowance, error)
	Reset(ctx context.Context, userID string) (Allowance, error)
}

// Service manages analysis allowances via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current allowance for a user, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Allowance, error) {
	return s.store.Get(ctx, userID)
}

// EnsurePeriod resets the allowance if the period has expired.
func (s *Service) EnsurePeriod(ctx context.Context, userID string) (Allowance, error) {
	return s.store.EnsurePeriod(ctx, userID)
}

// CanConsume reports whether the user can consume n units.
func (s *Service) CanConsume(ctx context.Context, userID string, n int) (bool, Allowance, error) {
	a, err := s.store.EnsurePeriod(ctx, userID)
	if err != nil {
		return false, Allowance{}, err
	}
	if n <= 0 {
		return true, a, nil
	}
	if a.Used+n > a.Limit {
		return false, a, nil
	}
	return true, a, nil
}

// Consume increments usage by n if within limit.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Allowance, error) {
	return s.store.Consume(ctx, userID, n)
}

// Reset sets usage to zero and resets the window.
func (s *Service) Reset(ctx context.Context, userID string) (Allowance, error) {
	return s.store.Reset(ctx, userID)
}
