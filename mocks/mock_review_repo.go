package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resumeparse/internal/domain"
	"resumeparse/internal/port"
)

// MockReviewRepository is a mock implementation of port.ReviewRepository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rec *domain.ReviewRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewRecord), args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, offset, limit int) ([]domain.ReviewRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReviewRecord), args.Int(1), args.Error(2)
}

func (m *MockReviewRepository) UpdateSections(ctx context.Context, id uuid.UUID, sections json.RawMessage, overallConfidence float64) error {
	args := m.Called(ctx, id, sections, overallConfidence)
	return args.Error(0)
}

func (m *MockReviewRepository) Complete(ctx context.Context, id uuid.UUID, input port.CompleteReviewInput) error {
	args := m.Called(ctx, id, input)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReviewStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
