// package submissionrepository contains the PostgreSQL implementation of the
// submission repository.
package submissionrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/judgecore-2026.net/internal/core/ports/primary"
	"gitlab.com/judgecore-2026.net/internal/core/ports/secondary"
	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
	querybuilder "gitlab.com/judgecore-2026.net/internal/utils"
)

var _ secondary.SubmissionRepository = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	db     *sqlx.DB
	schema string
	logger primary.Logger
}

func New(db *sqlx.DB, logger primary.Logger, schema string) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

type submissionRow struct {
	ID          uuid.UUID `db:"id"`
	UserID      string    `db:"user_id"`
	Code        string    `db:"code"`
	Language    string    `db:"language"`
	TimeLimit   int       `db:"time_limit"`
	MemoryLimit int       `db:"memory_limit"`
	Status      string    `db:"status"`
	SubmittedAt time.Time `db:"submitted_at"`
	TestCases   []byte    `db:"test_cases"`
}

// SaveSubmission inserts a submission with its test cases serialized as a
// JSON column. Test-case order is preserved by the array encoding.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, sub *domain.Submission) error {
	payload, err := encodeTestCases(sub.TestCases)
	if err != nil {
		r.logger.Error("Failed to marshal test cases", "error", err)
		return fmt.Errorf("failed to marshal test cases: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s.submissions (
			id, user_id, code, language, time_limit, memory_limit,
			status, submitted_at, test_cases
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.schema)

	_, err = r.db.ExecContext(ctx, query,
		sub.ID, sub.UserID, sub.Code, sub.Language, sub.TimeLimit,
		sub.MemoryLimit, sub.Status, sub.SubmittedAt, payload)
	if err != nil {
		r.logger.Error("Failed to save submission", "error", err)
		return fmt.Errorf("failed to save submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission by ID, test cases included.
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, code, language, time_limit, memory_limit,
			   status, submitted_at, test_cases
		FROM %s.submissions
		WHERE id = $1
	`, r.schema)

	var row submissionRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.SubmissionNotFound
		}
		r.logger.Error("Failed to get submission", "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return rowToSubmission(&row)
}

// UpdateStatus moves a submission to a new queue status.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubmissionStatus) error {
	query := fmt.Sprintf(`UPDATE %s.submissions SET status = $1 WHERE id = $2`, r.schema)
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		r.logger.Error("Failed to update submission status", "error", err)
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.SubmissionNotFound
	}
	return nil
}

// ClaimQueued moves up to limit queued submissions to RUNNING inside one
// transaction. FOR UPDATE SKIP LOCKED keeps concurrent dispatchers off the
// same rows.
func (r *SubmissionRepository) ClaimQueued(ctx context.Context, limit int) ([]*domain.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	query := fmt.Sprintf(`
		SELECT id, user_id, code, language, time_limit, memory_limit,
			   status, submitted_at, test_cases
		FROM %s.submissions
		WHERE status = $1
		ORDER BY submitted_at ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, r.schema)

	var rows []submissionRow
	if err := tx.SelectContext(ctx, &rows, query, domain.SubmissionQueued, limit); err != nil {
		r.logger.Error("Failed to select queued submissions", "error", err)
		return nil, fmt.Errorf("failed to select queued submissions: %w", err)
	}
	if len(rows) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	update := fmt.Sprintf(`UPDATE %s.submissions SET status = $1 WHERE id = ANY($2)`, r.schema)
	if _, err := tx.ExecContext(ctx, update, domain.SubmissionRunning, pqArray(ids)); err != nil {
		r.logger.Error("Failed to mark submissions running", "error", err)
		return nil, fmt.Errorf("failed to mark submissions running: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}

	subs := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		sub, err := rowToSubmission(&rows[i])
		if err != nil {
			return nil, err
		}
		sub.Status = domain.SubmissionRunning
		subs = append(subs, sub)
	}
	return subs, nil
}

// SaveResults batch-inserts the judged result table for a submission.
func (r *SubmissionRepository) SaveResults(ctx context.Context, id uuid.UUID, results []domain.ExecutionResult) error {
	if len(results) == 0 {
		return nil
	}
	tbl := domain.GetSubmissionResultTable()
	qb := querybuilder.NewQueryBuilder(r.schema).
		Insert(
			tbl.SubmissionID,
			tbl.TestCaseNumber,
			tbl.Input,
			tbl.ExpectedOutput,
			tbl.ActualOutput,
			tbl.TimeTaken,
			tbl.MemoryUsed,
			tbl.Status,
			tbl.ErrorMessage,
			tbl.Passed,
		).
		Into(tbl.TableName()).
		OnConflict(tbl.SubmissionID, tbl.TestCaseNumber).
		DoNothing()
	for _, res := range results {
		qb = qb.Values(
			id,
			res.TestCaseNumber,
			res.Input,
			res.ExpectedOutput,
			res.ActualOutput,
			res.TimeTaken,
			res.MemoryUsed,
			res.Status,
			res.ErrorMessage,
			res.Passed,
		)
	}
	query, args := qb.Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save results", "submissionId", id, "error", err)
		return fmt.Errorf("failed to save results: %w", err)
	}
	return nil
}

// GetResults retrieves the judged result table in test-case order.
func (r *SubmissionRepository) GetResults(ctx context.Context, id uuid.UUID) ([]domain.ExecutionResult, error) {
	query := fmt.Sprintf(`
		SELECT test_case_number, input, expected_output, actual_output,
			   time_taken, memory_used, status, error_message, passed
		FROM %s.submission_results
		WHERE submission_id = $1
		ORDER BY test_case_number ASC
	`, r.schema)

	var results []domain.ExecutionResult
	if err := r.db.SelectContext(ctx, &results, query, id); err != nil {
		r.logger.Error("Failed to get results", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	return results, nil
}
