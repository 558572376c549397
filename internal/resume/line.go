package resume

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"resumeparse/internal/domain"
)

const maxSnippetLen = 200

// Line is a trimmed, non-empty source line with its position in the document.
type Line struct {
	Index  int
	Page   int
	Offset int
	Text   string
}

// linesOf returns the non-empty lines of a span with their positions.
func linesOf(text *domain.ExtractedText, span domain.SectionSpan) []Line {
	all := text.Lines()
	var out []Line
	offset := text.LineOffset(span.StartLine)
	for i := span.StartLine; i < span.EndLine && i < len(all); i++ {
		raw := all[i]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			out = append(out, Line{
				Index:  i,
				Page:   text.PageOf(i),
				Offset: offset + utf8.RuneCountInString(raw[:lead]),
				Text:   trimmed,
			})
		}
		offset += utf8.RuneCountInString(raw) + 1
	}
	return out
}

// newField builds a pending field whose provenance points at byte position
// col of the line.
func newField(name, value string, confidence float64, ln Line, col int) domain.ParsedField {
	value = strings.TrimSpace(value)
	if col < 0 || col > len(ln.Text) {
		col = 0
	}
	return domain.ParsedField{
		ID:             uuid.New(),
		FieldName:      name,
		OriginalValue:  value,
		CorrectedValue: value,
		Confidence:     clamp(confidence),
		Provenance: &domain.Provenance{
			Page:       ln.Page,
			Line:       ln.Index,
			Offset:     ln.Offset + utf8.RuneCountInString(ln.Text[:col]),
			SourceText: snippet(ln.Text),
		},
		Status:   domain.FieldStatusPending,
		Warnings: []string{},
	}
}

// emptyField records a slot for which no candidate was found.
func emptyField(name, warning string) domain.ParsedField {
	return domain.ParsedField{
		ID:        uuid.New(),
		FieldName: name,
		Status:    domain.FieldStatusPending,
		Warnings:  []string{warning},
	}
}

func withMeta(f domain.ParsedField, kv ...string) domain.ParsedField {
	if f.Metadata == nil {
		f.Metadata = make(map[string]string, len(kv)/2)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		f.Metadata[kv[i]] = kv[i+1]
	}
	return f
}

func snippet(s string) string {
	if utf8.RuneCountInString(s) <= maxSnippetLen {
		return s
	}
	return string([]rune(s)[:maxSnippetLen])
}
