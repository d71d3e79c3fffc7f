package submissions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateText(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	submission := Submission{
		ID:     "submission-1",
		UserID: "user-1",
		Payload: SubmissionPayload{
			Modality:    ModalityText,
			TextContent: "some claim",
		},
		Status:    StatusCreated,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(
			submission.ID,
			submission.UserID,
			"text",
			"some claim",
			nil,
			nil,
			nil,
			nil,
			nil,
			"created",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), submission); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkSucceededGuard(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	completedAt := time.Now().UTC()

	// Zero rows updated plus an existing row means the submission already
	// reached a terminal state.
	mock.ExpectExec("UPDATE submissions").
		WithArgs("submission-1", "report-1", completedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "modality", "text_content", "url_content", "file_key", "file_name", "mime_type", "size_bytes",
		"status", "report_id", "error_kind", "created_at", "submitted_at", "completed_at",
	}).AddRow("submission-1", "user-1", "text", "claim", nil, nil, nil, nil, nil, "failed", nil, "CANCELLED", time.Now(), time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM submissions").WithArgs("submission-1").WillReturnRows(rows)

	err = repo.MarkSucceeded(context.Background(), "submission-1", "report-1", completedAt)
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoMarkFailedNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	completedAt := time.Now().UTC()

	mock.ExpectExec("UPDATE submissions").
		WithArgs("missing", ErrorKindEngineTimeout, completedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM submissions").WithArgs("missing").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err = repo.MarkFailed(context.Background(), "missing", ErrorKindEngineTimeout, completedAt)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDScansFileRef(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "modality", "text_content", "url_content", "file_key", "file_name", "mime_type", "size_bytes",
		"status", "report_id", "error_kind", "created_at", "submitted_at", "completed_at",
	}).AddRow("submission-2", "user-1", "video", nil, nil, "store/key", "clip.mp4", "video/mp4", int64(4096), "succeeded", "report-9", nil, now, now, now)
	mock.ExpectQuery("SELECT (.+) FROM submissions").WithArgs("submission-2").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "submission-2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Payload.Modality != ModalityVideo {
		t.Fatalf("unexpected modality %q", got.Payload.Modality)
	}
	if got.Payload.File == nil || got.Payload.File.StorageKey != "store/key" || got.Payload.File.SizeBytes != 4096 {
		t.Fatalf("file ref not scanned: %+v", got.Payload.File)
	}
	if got.ReportID != "report-9" || got.Status != StatusSucceeded {
		t.Fatalf("unexpected submission %+v", got)
	}
}
