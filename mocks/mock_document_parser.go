package mocks

import (
	"github.com/stretchr/testify/mock"

	"resumeparse/internal/domain"
)

// MockDocumentParser is a mock implementation of port.DocumentParser.
type MockDocumentParser struct {
	mock.Mock
}

func (m *MockDocumentParser) Parse(doc domain.RawDocument) (*domain.ParseReviewData, error) {
	args := m.Called(doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseReviewData), args.Error(1)
}
