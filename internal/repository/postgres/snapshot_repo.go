package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"resumeparse/internal/domain"
	"resumeparse/internal/port"
)

type snapshotRepo struct {
	db *sqlx.DB
}

// NewSnapshotRepo creates a new PostgreSQL-backed SnapshotRepository.
func NewSnapshotRepo(db *sqlx.DB) port.SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Save(ctx context.Context, snap *domain.SnapshotRecord) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO parse_snapshots (id, review_id, description, is_auto_save, sections, created_at)
		 VALUES (:id, :review_id, :description, :is_auto_save, :sections, :created_at)`,
		snap)
	if err != nil {
		return fmt.Errorf("snapshotRepo.Save: %w", err)
	}
	return nil
}

func (r *snapshotRepo) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]domain.SnapshotRecord, error) {
	var snaps []domain.SnapshotRecord
	err := r.db.SelectContext(ctx, &snaps,
		"SELECT * FROM parse_snapshots WHERE review_id = $1 ORDER BY created_at ASC, id ASC", reviewID)
	if err != nil {
		return nil, fmt.Errorf("snapshotRepo.ListByReview: %w", err)
	}
	return snaps, nil
}

// Prune keeps the newest keep snapshots of a review.
func (r *snapshotRepo) Prune(ctx context.Context, reviewID uuid.UUID, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM parse_snapshots WHERE review_id = $1 AND id NOT IN (
			SELECT id FROM parse_snapshots WHERE review_id = $1
			ORDER BY created_at DESC, id DESC LIMIT $2
		)`,
		reviewID, keep)
	if err != nil {
		return fmt.Errorf("snapshotRepo.Prune: %w", err)
	}
	return nil
}

func (r *snapshotRepo) DeleteByReview(ctx context.Context, reviewID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM parse_snapshots WHERE review_id = $1", reviewID)
	if err != nil {
		return fmt.Errorf("snapshotRepo.DeleteByReview: %w", err)
	}
	return nil
}
