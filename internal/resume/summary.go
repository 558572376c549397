package resume

import (
	"strings"

	"resumeparse/internal/domain"
)

// extractSummary joins the span's lines with single spaces.
func extractSummary(lines []Line) []domain.ParsedField {
	if len(lines) == 0 {
		return []domain.ParsedField{emptyField(domain.FieldSummary, "summary section is empty")}
	}
	parts := make([]string, len(lines))
	for i, ln := range lines {
		parts[i] = ln.Text
	}
	text := multiSpaces.ReplaceAllString(strings.Join(parts, " "), " ")
	return []domain.ParsedField{newField(domain.FieldSummary, text, confSummary, lines[0], 0)}
}
