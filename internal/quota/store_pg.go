package quota

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed allowance store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Allowance, error) {
	return s.ensure(ctx, userID)
}

func (s *pgStore) EnsurePeriod(ctx context.Context, userID string) (Allowance, error) {
	return s.ensure(ctx, userID)
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Allowance, error) {
	if n <= 0 {
		return s.ensure(ctx, userID)
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Allowance{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	a, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Allowance{}, err
	}

	if a.Used+n > a.Limit {
		err = ErrLimitReached
		return Allowance{}, err
	}
	a.Used += n
	if _, err = tx.ExecContext(ctx, `
UPDATE quota_allowances SET used = $1 WHERE user_id = $2`, a.Used, userID); err != nil {
		return Allowance{}, err
	}
	if err = tx.Commit(); err != nil {
		return Allowance{}, err
	}
	return a, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Allowance, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Allowance{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	now := time.Now().UTC()
	resetsAt := now.Add(allowancePeriod)
	def := defaultAllowance()
	if _, err = tx.ExecContext(ctx, `
INSERT INTO quota_allowances (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE SET used = 0, resets_at = EXCLUDED.resets_at`,
		userID, def.Plan, def.Limit, resetsAt); err != nil {
		return Allowance{}, err
	}
	if err = tx.Commit(); err != nil {
		return Allowance{}, err
	}
	return Allowance{Plan: def.Plan, Limit: def.Limit, Used: 0, ResetsAt: resetsAt}, nil
}

func (s *pgStore) ensure(ctx context.Context, userID string) (Allowance, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Allowance{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	a, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Allowance{}, err
	}
	if err = tx.Commit(); err != nil {
		return Allowance{}, err
	}
	return a, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Allowance, error) {
	var a Allowance
	row := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM quota_allowances WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&a.Plan, &a.Limit, &a.Used, &a.ResetsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			a = defaultAllowance()
			if _, err = tx.ExecContext(ctx, `
INSERT INTO quota_allowances (user_id, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
				userID, a.Plan, a.Limit, a.Used, a.ResetsAt); err != nil {
				return Allowance{}, err
			}
			return a, nil
		}
		return Allowance{}, err
	}

	now := time.Now().UTC()
	if now.After(a.ResetsAt) || now.Equal(a.ResetsAt) {
		a.Used = 0
		a.ResetsAt = now.Add(allowancePeriod)
		if _, err = tx.ExecContext(ctx, `UPDATE quota_allowances SET used = $1, resets_at = $2 WHERE user_id = $3`, a.Used, a.ResetsAt, userID); err != nil {
			return Allowance{}, err
		}
	}
	return a, nil
}
