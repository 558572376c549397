package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resumeparse/internal/domain"
)

// MockSnapshotRepository is a mock implementation of port.SnapshotRepository.
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snap *domain.SnapshotRecord) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

func (m *MockSnapshotRepository) ListByReview(ctx context.Context, reviewID uuid.UUID) ([]domain.SnapshotRecord, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SnapshotRecord), args.Error(1)
}

func (m *MockSnapshotRepository) Prune(ctx context.Context, reviewID uuid.UUID, keep int) error {
	args := m.Called(ctx, reviewID, keep)
	return args.Error(0)
}

func (m *MockSnapshotRepository) DeleteByReview(ctx context.Context, reviewID uuid.UUID) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}
