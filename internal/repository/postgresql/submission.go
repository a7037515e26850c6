package postgresql

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/sheet-attendance/internal/pkg/database"
)

const createSubmissionsTable = `
	CREATE TABLE IF NOT EXISTS attendance_submissions (
		id                UUID PRIMARY KEY,
		sales_person_name TEXT        NOT NULL,
		status            TEXT        NOT NULL,
		confirmed         BOOLEAN     NOT NULL,
		transport_error   TEXT,
		row_data          JSONB       NOT NULL,
		submitted_at      TIMESTAMPTZ NOT NULL
	)
`

type submissionRepository struct {
	db *database.DB
}

// NewSubmissionRepository creates the audit log of write attempts
func NewSubmissionRepository(db *database.DB) attendance.SubmissionLog {
	return &submissionRepository{db: db}
}

const createSubmissionsIndex = `
	CREATE INDEX IF NOT EXISTS idx_attendance_submissions_name_time
		ON attendance_submissions (sales_person_name, submitted_at DESC)
`

// EnsureSchema creates the audit table and its index in one transaction
func EnsureSchema(ctx context.Context, db *database.DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	txCtx := WithTx(ctx, tx)
	q := GetQuerier(txCtx, db)

	if _, err := q.Exec(txCtx, createSubmissionsTable); err != nil {
		return fmt.Errorf("failed to create attendance_submissions: %w", err)
	}
	if _, err := q.Exec(txCtx, createSubmissionsIndex); err != nil {
		return fmt.Errorf("failed to create attendance_submissions index: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// Record implements attendance.SubmissionLog.
func (r *submissionRepository) Record(ctx context.Context, s attendance.Submission) error {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}

	rowJSON, err := json.Marshal(s.Row)
	if err != nil {
		return fmt.Errorf("failed to marshal row data: %w", err)
	}

	query := `
		INSERT INTO attendance_submissions (id, sales_person_name, status, confirmed, transport_error, row_data, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = q.Exec(ctx, query,
		s.ID,
		s.SalesPersonName,
		s.Status,
		s.Confirmed,
		s.TransportError,
		rowJSON,
		s.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}

	return nil
}
