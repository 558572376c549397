package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RawDocument is an uploaded résumé as received from the caller.
type RawDocument struct {
	Bytes     []byte
	MediaType string
	FileName  string
}

// ExtractedText is the normalized text of a document. PageStarts holds the
// line index at which each page begins and is empty for unpaginated input.
type ExtractedText struct {
	Text       string
	Format     FileFormat
	PageStarts []int
	lines      []string
}

// Lines splits the text into lines. The result is cached.
func (t *ExtractedText) Lines() []string {
	if t.lines == nil {
		t.lines = splitLines(t.Text)
	}
	return t.lines
}

// PageOf returns the 1-based page of a line, or 0 when the text is not paginated.
func (t *ExtractedText) PageOf(line int) int {
	page := 0
	for i, start := range t.PageStarts {
		if line >= start {
			page = i + 1
		}
	}
	return page
}

// LineOffset returns the character offset at which a line starts.
func (t *ExtractedText) LineOffset(line int) int {
	offset := 0
	for i, l := range t.Lines() {
		if i == line {
			return offset
		}
		offset += len([]rune(l)) + 1
	}
	return offset
}

// SectionSpan is a half-open range of lines [StartLine, EndLine) attributed to one section.
type SectionSpan struct {
	SectionType SectionType `json:"sectionType"`
	StartLine   int         `json:"startLine"`
	EndLine     int         `json:"endLine"`
}

// Provenance records where in the source text a value came from.
type Provenance struct {
	Page       int    `json:"page,omitempty"`
	Line       int    `json:"line"`
	Offset     int    `json:"offset"`
	SourceText string `json:"sourceText,omitempty"`
}

// ParsedField is a single extracted value and its review state.
type ParsedField struct {
	ID             uuid.UUID         `json:"id"`
	FieldName      string            `json:"fieldName"`
	OriginalValue  string            `json:"originalValue"`
	CorrectedValue string            `json:"correctedValue"`
	Confidence     float64           `json:"confidence"`
	Provenance     *Provenance       `json:"provenance,omitempty"`
	Status         FieldStatus       `json:"status"`
	Warnings       []string          `json:"warnings"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy of the field.
func (f *ParsedField) Clone() ParsedField {
	c := *f
	if f.Provenance != nil {
		p := *f.Provenance
		c.Provenance = &p
	}
	c.Warnings = append([]string{}, f.Warnings...)
	if f.Metadata != nil {
		c.Metadata = make(map[string]string, len(f.Metadata))
		for k, v := range f.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// ParsedSection groups the fields extracted for one résumé section.
type ParsedSection struct {
	ID          uuid.UUID     `json:"id"`
	SectionName string        `json:"sectionName"`
	SectionType SectionType   `json:"sectionType"`
	Fields      []ParsedField `json:"fields"`
	Confidence  float64       `json:"confidence"`
	IsEmpty     bool          `json:"isEmpty"`
	IsVisible   bool          `json:"isVisible"`
}

// CloneSections deep-copies a section list.
func CloneSections(sections []ParsedSection) []ParsedSection {
	out := make([]ParsedSection, len(sections))
	for i := range sections {
		out[i] = sections[i]
		out[i].Fields = make([]ParsedField, len(sections[i].Fields))
		for j := range sections[i].Fields {
			out[i].Fields[j] = sections[i].Fields[j].Clone()
		}
	}
	return out
}

// ParseSnapshot is an immutable copy of a review's sections.
type ParseSnapshot struct {
	ID          uuid.UUID       `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	Sections    []ParsedSection `json:"sections"`
	Description string          `json:"description"`
	IsAutoSave  bool            `json:"isAutoSave"`
}

// ParseReviewData is the aggregate produced by parsing and mutated during review.
type ParseReviewData struct {
	ID                uuid.UUID       `json:"id"`
	OriginalFileName  string          `json:"originalFileName"`
	OriginalFileType  string          `json:"originalFileType"`
	Sections          []ParsedSection `json:"sections"`
	OverallConfidence float64         `json:"overallConfidence"`
	Snapshots         []ParseSnapshot `json:"snapshots"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Correction is a reviewed field collected on finalize.
type Correction struct {
	SectionID      uuid.UUID   `json:"sectionId"`
	FieldID        uuid.UUID   `json:"fieldId"`
	FieldName      string      `json:"fieldName"`
	OriginalValue  string      `json:"originalValue"`
	CorrectedValue string      `json:"correctedValue"`
	Status         FieldStatus `json:"status"`
}

// PersonalInfo is the contact block of a résumé.
type PersonalInfo struct {
	FullName string `json:"fullName,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Experience is one position held.
type Experience struct {
	Position     string   `json:"position,omitempty"`
	Company      string   `json:"company,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements"`
}

// Education is one degree or diploma.
type Education struct {
	Degree      string `json:"degree,omitempty"`
	Institution string `json:"institution,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Skill is a named skill with level and category.
type Skill struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

// ResumeRecord is the partial résumé handed to the caller on finalize.
type ResumeRecord struct {
	PersonalInfo *PersonalInfo `json:"personalInfo,omitempty"`
	Experience   []Experience  `json:"experience"`
	Education    []Education   `json:"education"`
	Skills       []Skill       `json:"skills"`
}

// ReviewRecord is the persisted form of a review.
type ReviewRecord struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	OriginalFileName  string          `db:"original_file_name" json:"original_file_name"`
	OriginalFileType  string          `db:"original_file_type" json:"original_file_type"`
	StorageKey        string          `db:"storage_key" json:"storage_key"`
	Status            ReviewStatus    `db:"status" json:"status"`
	Sections          json.RawMessage `db:"sections" json:"-"`
	OverallConfidence float64         `db:"overall_confidence" json:"overall_confidence"`
	Resume            json.RawMessage `db:"resume" json:"-"`
	Corrections       json.RawMessage `db:"corrections" json:"-"`
	FinalizedAt       *time.Time      `db:"finalized_at" json:"finalized_at"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// SnapshotRecord is the persisted form of a review snapshot.
type SnapshotRecord struct {
	ID          uuid.UUID       `db:"id"`
	ReviewID    uuid.UUID       `db:"review_id"`
	Description string          `db:"description"`
	IsAutoSave  bool            `db:"is_auto_save"`
	Sections    json.RawMessage `db:"sections"`
	CreatedAt   time.Time       `db:"created_at"`
}
