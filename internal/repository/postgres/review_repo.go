package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"resumeparse/internal/domain"
	"resumeparse/internal/port"
)

type reviewRepo struct {
	db *sqlx.DB
}

// NewReviewRepo creates a new PostgreSQL-backed ReviewRepository.
func NewReviewRepo(db *sqlx.DB) port.ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) Create(ctx context.Context, rec *domain.ReviewRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	query := `INSERT INTO parse_reviews (
		id, original_file_name, original_file_type, storage_key, status,
		sections, overall_confidence, resume, corrections, finalized_at,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OriginalFileName, rec.OriginalFileType, rec.StorageKey, rec.Status,
		rec.Sections, rec.OverallConfidence, rec.Resume, rec.Corrections, rec.FinalizedAt,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("reviewRepo.Create: %w", err)
	}
	return nil
}

func (r *reviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewRecord, error) {
	var rec domain.ReviewRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM parse_reviews WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("reviewRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *reviewRepo) List(ctx context.Context, offset, limit int) ([]domain.ReviewRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM parse_reviews"); err != nil {
		return nil, 0, fmt.Errorf("reviewRepo.List count: %w", err)
	}

	var recs []domain.ReviewRecord
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM parse_reviews ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reviewRepo.List: %w", err)
	}
	return recs, total, nil
}

func (r *reviewRepo) UpdateSections(ctx context.Context, id uuid.UUID, sections json.RawMessage, overallConfidence float64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE parse_reviews SET sections = $1, overall_confidence = $2, updated_at = $3
		 WHERE id = $4 AND status = $5`,
		sections, overallConfidence, time.Now().UTC(), id, domain.ReviewStatusEditing)
	if err != nil {
		return fmt.Errorf("reviewRepo.UpdateSections: %w", err)
	}
	return requireRow(result, domain.ErrReviewNotFound)
}

func (r *reviewRepo) Complete(ctx context.Context, id uuid.UUID, input port.CompleteReviewInput) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE parse_reviews SET status = $1, sections = $2, resume = $3, corrections = $4,
		 overall_confidence = $5, finalized_at = $6, updated_at = $7
		 WHERE id = $8 AND status = $9`,
		domain.ReviewStatusCompleted, input.Sections, input.Resume, input.Corrections,
		input.OverallConfidence, input.FinalizedAt, time.Now().UTC(), id, domain.ReviewStatusEditing)
	if err != nil {
		return fmt.Errorf("reviewRepo.Complete: %w", err)
	}
	return requireRow(result, domain.ErrReviewClosed)
}

func (r *reviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE parse_reviews SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("reviewRepo.UpdateStatus: %w", err)
	}
	return requireRow(result, domain.ErrReviewNotFound)
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
