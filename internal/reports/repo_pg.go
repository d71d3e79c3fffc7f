package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new report.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO reports (id, verdict, score, content, summary, explanation, sources, techniques, similarities, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	sources, err := json.Marshal(report.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}
	techniques, err := json.Marshal(report.Techniques)
	if err != nil {
		return fmt.Errorf("marshal techniques: %w", err)
	}
	similarities, err := json.Marshal(report.Similarities)
	if err != nil {
		return fmt.Errorf("marshal similarities: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		report.ID,
		string(report.Verdict),
		report.Score,
		report.Content,
		report.Summary,
		report.Explanation,
		sources,
		techniques,
		similarities,
		report.CreatedAt,
	)
	return err
}

// GetByID returns a report by ID.
func (r *PGRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	const query = `
SELECT id, verdict, score, content, summary, explanation, sources, techniques, similarities, created_at
FROM reports
WHERE id = $1
LIMIT 1`
	var (
		report       Report
		verdict      string
		sources      []byte
		techniques   []byte
		similarities []byte
	)
	err := r.DB.QueryRowContext(ctx, query, reportID).Scan(
		&report.ID,
		&verdict,
		&report.Score,
		&report.Content,
		&report.Summary,
		&report.Explanation,
		&sources,
		&techniques,
		&similarities,
		&report.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}

	report.Verdict = ParseVerdict(verdict)
	if err := json.Unmarshal(sources, &report.Sources); err != nil {
		return Report{}, fmt.Errorf("unmarshal sources: %w", err)
	}
	if err := json.Unmarshal(techniques, &report.Techniques); err != nil {
		return Report{}, fmt.Errorf("unmarshal techniques: %w", err)
	}
	if err := json.Unmarshal(similarities, &report.Similarities); err != nil {
		return Report{}, fmt.Errorf("unmarshal similarities: %w", err)
	}
	return report, nil
}

// Delete removes a report. Deleting an absent report is a no-op.
func (r *PGRepo) Delete(ctx context.Context, reportID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, reportID)
	return err
}

var _ Repo = (*PGRepo)(nil)
