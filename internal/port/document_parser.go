package port

import (
	"resumeparse/internal/domain"
)

// DocumentParser turns an uploaded document into reviewable parse data.
type DocumentParser interface {
	Parse(doc domain.RawDocument) (*domain.ParseReviewData, error)
}
