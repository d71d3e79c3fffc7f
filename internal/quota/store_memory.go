package quota

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]Allowance
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]Allowance)}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Allowance, error) {
	if err := ctx.Err(); err != nil {
		return Allowance{}, err
	}
	s.mu.RLock()
	a, ok := s.data[userID]
	s.mu.RUnlock()
	if ok {
		return a, nil
	}
	return s.ensure(ctx, userID)
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string) (Allowance, error) {
	return s.ensure(ctx, userID)
}

func (s *memoryStore) ensure(ctx context.Context, userID string) (Allowance, error) {
	if err := ctx.Err(); err != nil {
		return Allowance{}, err
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data[userID]
	if !ok {
		a = defaultAllowance()
	}
	if now.After(a.ResetsAt) || now.Equal(a.ResetsAt) {
		a.Used = 0
		a.ResetsAt = now.Add(allowancePeriod)
	}
	s.data[userID] = a
	return a, nil
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Allowance, error) {
	if n <= 0 {
		return s.ensure(ctx, userID)
	}
	if err := ctx.Err(); err != nil {
		return Allowance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	a, ok := s.data[userID]
	if !ok {
		a = defaultAllowance()
	}
	if now.After(a.ResetsAt) || now.Equal(a.ResetsAt) {
		a.Used = 0
		a.ResetsAt = now.Add(allowancePeriod)
	}
	if a.Used+n > a.Limit {
		return Allowance{}, ErrLimitReached
	}
	a.Used += n
	s.data[userID] = a
	return a, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Allowance, error) {
	if err := ctx.Err(); err != nil {
		return Allowance{}, err
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data[userID]
	if !ok {
		a = defaultAllowance()
	}
	a.Used = 0
	a.ResetsAt = now.Add(allowancePeriod)
	s.data[userID] = a
	return a, nil
}
