// Package resume turns normalized résumé text into reviewable sections of
// typed, confidence-scored fields.
package resume

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"resumeparse/internal/domain"
	"resumeparse/internal/extract"
)

// extractFunc converts the lines of one section into fields. Every
// implementation is pure.
type extractFunc func(lines []Line) []domain.ParsedField

var sectionExtractors = map[domain.SectionType]extractFunc{
	domain.SectionPersonal:   extractPersonal,
	domain.SectionExperience: extractExperience,
	domain.SectionEducation:  extractEducation,
	domain.SectionSkills:     extractSkills,
	domain.SectionSummary:    extractSummary,
}

// ParseText segments text and runs the extractor of every section. Spans of
// the same type are merged into one section; sections keep the order in
// which their type first appears, personal first.
func ParseText(text *domain.ExtractedText, fileName, fileType string) *domain.ParseReviewData {
	spans := Segment(text)

	var order []domain.SectionType
	grouped := make(map[domain.SectionType][]Line)
	for _, span := range spans {
		if _, ok := grouped[span.SectionType]; !ok {
			order = append(order, span.SectionType)
			grouped[span.SectionType] = []Line{}
		}
		grouped[span.SectionType] = append(grouped[span.SectionType], linesOf(text, span)...)
	}

	sections := make([]domain.ParsedSection, 0, len(order))
	for _, st := range order {
		fields := sectionExtractors[st](grouped[st])
		sections = append(sections, domain.ParsedSection{
			ID:          uuid.New(),
			SectionName: domain.SectionNames[st],
			SectionType: st,
			Fields:      fields,
			IsVisible:   true,
		})
	}

	return &domain.ParseReviewData{
		ID:                uuid.New(),
		OriginalFileName:  fileName,
		OriginalFileType:  fileType,
		Sections:          sections,
		OverallConfidence: Recompute(sections),
		Snapshots:         []domain.ParseSnapshot{},
		CreatedAt:         time.Now().UTC(),
	}
}

// Pipeline runs text extraction followed by parsing.
type Pipeline struct {
	extractor *extract.Extractor
}

// NewPipeline creates a Pipeline around an extractor.
func NewPipeline(extractor *extract.Extractor) *Pipeline {
	return &Pipeline{extractor: extractor}
}

// Parse extracts and parses one document. Only extraction can fail; field
// level problems are reported as warnings on the fields.
func (p *Pipeline) Parse(doc domain.RawDocument) (*domain.ParseReviewData, error) {
	text, err := p.extractor.Extract(doc)
	if err != nil {
		return nil, err
	}
	fileType := doc.MediaType
	if fileType == "" {
		fileType = string(text.Format)
	}
	return ParseText(text, doc.FileName, fileType), nil
}

// BatchResult is the outcome of parsing one document of a batch.
type BatchResult struct {
	Index    int
	FileName string
	Data     *domain.ParseReviewData
	Err      error
}

// ParseBatch parses documents with at most concurrency parses in flight.
// Results are returned in input order. Documents not started before ctx is
// canceled report ctx.Err().
func (p *Pipeline) ParseBatch(ctx context.Context, docs []domain.RawDocument, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]BatchResult, len(docs))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i := range docs {
		results[i] = BatchResult{Index: i, FileName: docs[i].FileName}
		select {
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}: // acquire
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // release

			data, err := p.Parse(docs[i])
			if err != nil {
				log.Printf("resume.ParseBatch: %s: %v", docs[i].FileName, err)
			}
			results[i].Data, results[i].Err = data, err
		}(i)
	}
	wg.Wait()
	return results
}
