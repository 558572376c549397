package resume

import (
	"strings"

	"resumeparse/internal/domain"
)

// Extractor-local confidence levels.
const (
	confEmail        = 0.95
	confPhone        = 0.9
	confLinkedIn     = 0.9
	confWebsite      = 0.8
	confLocation     = 0.6
	confNameFiltered = 0.7
	confNameFallback = 0.4
	confPosition     = 0.7
	confCompany      = 0.7
	confCompanyBare  = 0.5
	confDate         = 0.8
	confBullet       = 0.6
	confDegree       = 0.8
	confInstitution  = 0.7
	confStudy        = 0.6
	confEduDate      = 0.7
	confGPA          = 0.8
	confSkill        = 0.7
	confSkillLabeled = 0.8
	confSummary      = 0.8
)

func clamp(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// SectionConfidence is the mean confidence of a section's fields, 0 when it has none.
func SectionConfidence(fields []domain.ParsedField) float64 {
	if len(fields) == 0 {
		return 0
	}
	var sum float64
	for i := range fields {
		sum += clamp(fields[i].Confidence)
	}
	return sum / float64(len(fields))
}

// OverallConfidence is the mean confidence of every field across all
// sections. A document without fields has confidence 0.
func OverallConfidence(sections []domain.ParsedSection) float64 {
	var sum float64
	n := 0
	for i := range sections {
		for j := range sections[i].Fields {
			sum += clamp(sections[i].Fields[j].Confidence)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// IsEmpty reports whether no field carries a non-blank value.
func IsEmpty(fields []domain.ParsedField) bool {
	for i := range fields {
		if strings.TrimSpace(fields[i].CorrectedValue) != "" {
			return false
		}
	}
	return true
}

// Recompute refreshes the derived confidence and emptiness of every section
// and returns the overall confidence.
func Recompute(sections []domain.ParsedSection) float64 {
	for i := range sections {
		sections[i].Confidence = SectionConfidence(sections[i].Fields)
		sections[i].IsEmpty = IsEmpty(sections[i].Fields)
	}
	return OverallConfidence(sections)
}
