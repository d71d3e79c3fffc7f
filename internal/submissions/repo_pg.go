package submissions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const submissionColumns = `id, user_id, modality, text_content, url_content, file_key, file_name, mime_type, size_bytes,
       status, report_id, error_kind, created_at, submitted_at, completed_at`

// Create inserts a new submission.
func (r *PGRepo) Create(ctx context.Context, submission Submission) error {
	const query = `
INSERT INTO submissions (
	id, user_id, modality, text_content, url_content, file_key, file_name, mime_type, size_bytes,
	status, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var fileKey, fileName, mimeType any
	var sizeBytes any
	if f := submission.Payload.File; f != nil {
		fileKey = f.StorageKey
		fileName = f.FileName
		mimeType = f.MimeType
		sizeBytes = f.SizeBytes
	}
	_, err := r.DB.ExecContext(ctx, query,
		submission.ID,
		submission.UserID,
		string(submission.Payload.Modality),
		nullIfEmpty(submission.Payload.TextContent),
		nullIfEmpty(submission.Payload.URLContent),
		fileKey,
		fileName,
		mimeType,
		sizeBytes,
		string(submission.Status),
		submission.CreatedAt,
	)
	return err
}

// GetByID returns a submission by ID.
func (r *PGRepo) GetByID(ctx context.Context, submissionID string) (Submission, error) {
	query := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE id = $1
LIMIT 1`
	submission, err := scanSubmission(r.DB.QueryRowContext(ctx, query, submissionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	return submission, nil
}

// MarkAnalyzing transitions created -> analyzing. The guard lives in the
// WHERE clause so concurrent submits race safely at the database.
func (r *PGRepo) MarkAnalyzing(ctx context.Context, submissionID string, submittedAt time.Time) (Submission, error) {
	query := `
UPDATE submissions
SET status = 'analyzing',
    submitted_at = $2
WHERE id = $1 AND status = 'created'
RETURNING ` + submissionColumns

	submission, err := scanSubmission(r.DB.QueryRowContext(ctx, query, submissionID, submittedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, submissionID); getErr != nil {
				return Submission{}, getErr
			}
			return Submission{}, ErrAlreadySubmitted
		}
		return Submission{}, err
	}
	return submission, nil
}

// MarkSucceeded transitions analyzing -> succeeded with the report id.
func (r *PGRepo) MarkSucceeded(ctx context.Context, submissionID, reportID string, completedAt time.Time) error {
	const query = `
UPDATE submissions
SET status = 'succeeded',
    report_id = $2,
    completed_at = $3
WHERE id = $1 AND status = 'analyzing'`
	return r.complete(ctx, query, submissionID, reportID, completedAt)
}

// MarkFailed transitions analyzing -> failed with the error kind.
func (r *PGRepo) MarkFailed(ctx context.Context, submissionID, errorKind string, completedAt time.Time) error {
	const query = `
UPDATE submissions
SET status = 'failed',
    error_kind = $2,
    completed_at = $3
WHERE id = $1 AND status = 'analyzing'`
	return r.complete(ctx, query, submissionID, errorKind, completedAt)
}

func (r *PGRepo) complete(ctx context.Context, query, submissionID, value string, completedAt time.Time) error {
	res, err := r.DB.ExecContext(ctx, query, submissionID, value, completedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, getErr := r.GetByID(ctx, submissionID); getErr != nil {
			return getErr
		}
		return ErrAlreadyTerminal
	}
	return nil
}

// ListByUser lists submissions for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `
SELECT ` + submissionColumns + `
FROM submissions
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, submission)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var s Submission
	var modality string
	var status string
	var textContent sql.NullString
	var urlContent sql.NullString
	var fileKey sql.NullString
	var fileName sql.NullString
	var mimeType sql.NullString
	var sizeBytes sql.NullInt64
	var reportID sql.NullString
	var errorKind sql.NullString
	var submittedAt sql.NullTime
	var completedAt sql.NullTime
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&modality,
		&textContent,
		&urlContent,
		&fileKey,
		&fileName,
		&mimeType,
		&sizeBytes,
		&status,
		&reportID,
		&errorKind,
		&s.CreatedAt,
		&submittedAt,
		&completedAt,
	); err != nil {
		return Submission{}, err
	}
	s.Payload.Modality = Modality(modality)
	s.Status = Status(status)
	if textContent.Valid {
		s.Payload.TextContent = textContent.String
	}
	if urlContent.Valid {
		s.Payload.URLContent = urlContent.String
	}
	if fileKey.Valid {
		s.Payload.File = &FileRef{
			StorageKey: fileKey.String,
			FileName:   fileName.String,
			MimeType:   mimeType.String,
			SizeBytes:  sizeBytes.Int64,
		}
	}
	if reportID.Valid {
		s.ReportID = reportID.String
	}
	if errorKind.Valid {
		s.ErrorKind = errorKind.String
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		s.SubmittedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		s.CompletedAt = &t
	}
	return s, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
