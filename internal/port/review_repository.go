package port

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"resumeparse/internal/domain"
)

// ReviewRepository defines the contract for review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, rec *domain.ReviewRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.ReviewRecord, int, error)
	UpdateSections(ctx context.Context, id uuid.UUID, sections json.RawMessage, overallConfidence float64) error
	Complete(ctx context.Context, id uuid.UUID, input CompleteReviewInput) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus) error
}

// CompleteReviewInput carries the final state written when a review is finalized.
type CompleteReviewInput struct {
	Sections          json.RawMessage
	Resume            json.RawMessage
	Corrections       json.RawMessage
	OverallConfidence float64
	FinalizedAt       time.Time
}

// SnapshotRepository defines the contract for review snapshot persistence.
type SnapshotRepository interface {
	Save(ctx context.Context, snap *domain.SnapshotRecord) error
	ListByReview(ctx context.Context, reviewID uuid.UUID) ([]domain.SnapshotRecord, error)
	Prune(ctx context.Context, reviewID uuid.UUID, keep int) error
	DeleteByReview(ctx context.Context, reviewID uuid.UUID) error
}
