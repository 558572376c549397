package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"resumeparse/internal/domain"
	"resumeparse/internal/service"
)

// MockReviewService is a mock implementation of service.ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Upload(ctx context.Context, input service.UploadInput) (*service.ReviewView, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewView), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, id uuid.UUID) (*service.ReviewView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewView), args.Error(1)
}

func (m *MockReviewService) List(ctx context.Context, offset, limit int) ([]domain.ReviewRecord, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ReviewRecord), args.Int(1), args.Error(2)
}

func (m *MockReviewService) Correct(ctx context.Context, id, sectionID, fieldID uuid.UUID, value string) (*domain.ParsedField, error) {
	args := m.Called(ctx, id, sectionID, fieldID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedField), args.Error(1)
}

func (m *MockReviewService) CopyFromSource(ctx context.Context, id, sectionID, fieldID uuid.UUID) (*domain.ParsedField, error) {
	args := m.Called(ctx, id, sectionID, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedField), args.Error(1)
}

func (m *MockReviewService) MarkUnknown(ctx context.Context, id, sectionID, fieldID uuid.UUID) (*domain.ParsedField, error) {
	args := m.Called(ctx, id, sectionID, fieldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedField), args.Error(1)
}

func (m *MockReviewService) SplitField(ctx context.Context, id, sectionID, fieldID uuid.UUID, offset int) (*domain.ParsedField, error) {
	args := m.Called(ctx, id, sectionID, fieldID, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedField), args.Error(1)
}

func (m *MockReviewService) ToggleSectionVisibility(ctx context.Context, id, sectionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, id, sectionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewService) ListSnapshots(ctx context.Context, id uuid.UUID) ([]domain.ParseSnapshot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParseSnapshot), args.Error(1)
}

func (m *MockReviewService) CreateSnapshot(ctx context.Context, id uuid.UUID, description string) (*domain.ParseSnapshot, error) {
	args := m.Called(ctx, id, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseSnapshot), args.Error(1)
}

func (m *MockReviewService) Revert(ctx context.Context, id, snapshotID uuid.UUID) (*service.ReviewView, error) {
	args := m.Called(ctx, id, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReviewView), args.Error(1)
}

func (m *MockReviewService) Finalize(ctx context.Context, id uuid.UUID) (*service.FinalizeResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FinalizeResult), args.Error(1)
}

func (m *MockReviewService) Cancel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewService) GetResume(ctx context.Context, id uuid.UUID) (*domain.ResumeRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResumeRecord), args.Error(1)
}

func (m *MockReviewService) Export(ctx context.Context, id uuid.UUID, format string) (*service.ExportFile, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockReviewService) SourceURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockReviewService) EvictIdle(idle time.Duration) int {
	args := m.Called(idle)
	return args.Int(0)
}
