package review

import (
	"github.com/google/uuid"

	"resumeparse/internal/domain"
)

// Decision is the review requirement derived from a confidence score.
type Decision string

const (
	DecisionNeedsReview Decision = "needs_review"
	DecisionOK          Decision = "ok"
	DecisionQuickAccept Decision = "quick_accept"
)

const (
	DefaultReviewThreshold      = 0.7
	DefaultQuickAcceptThreshold = 0.8
)

// Policy turns confidence into a review decision. It is product policy and
// is never applied by the session itself.
type Policy struct {
	ReviewThreshold      float64
	QuickAcceptThreshold float64
}

// DefaultPolicy forces review below 0.7 and allows quick accept from 0.8.
func DefaultPolicy() Policy {
	return Policy{
		ReviewThreshold:      DefaultReviewThreshold,
		QuickAcceptThreshold: DefaultQuickAcceptThreshold,
	}
}

// Decide classifies a single confidence score.
func (p Policy) Decide(confidence float64) Decision {
	switch {
	case confidence < p.ReviewThreshold:
		return DecisionNeedsReview
	case confidence >= p.QuickAcceptThreshold:
		return DecisionQuickAccept
	default:
		return DecisionOK
	}
}

// Assessment is the policy outcome for a document and each of its sections.
type Assessment struct {
	Overall  Decision               `json:"overall"`
	Sections map[uuid.UUID]Decision `json:"sections"`
}

// Assess applies the policy to the document and every non-empty section.
// Empty sections carry no evidence and are skipped.
func (p Policy) Assess(data *domain.ParseReviewData) Assessment {
	a := Assessment{
		Overall:  p.Decide(data.OverallConfidence),
		Sections: make(map[uuid.UUID]Decision, len(data.Sections)),
	}
	for _, sec := range data.Sections {
		if sec.IsEmpty {
			continue
		}
		a.Sections[sec.ID] = p.Decide(sec.Confidence)
	}
	return a
}
