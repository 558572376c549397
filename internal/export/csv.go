package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"resumeparse/internal/domain"
)

// BOM is the UTF-8 byte order mark written ahead of CSV output so Excel on
// Windows detects the encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// fieldColumns is the header row shared by the CSV and the XLSX field sheet.
var fieldColumns = []string{
	"Section",
	"Visible",
	"Field",
	"Entry",
	"Original Value",
	"Corrected Value",
	"Status",
	"Confidence",
	"Page",
	"Line",
	"Source Text",
	"Warnings",
}

// CSVWriter writes one row per parsed field.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(fieldColumns)
}

// WriteSections writes every field of every section, in section order.
func (w *CSVWriter) WriteSections(sections []domain.ParsedSection) error {
	for i := range sections {
		for j := range sections[i].Fields {
			if err := w.csv.Write(fieldRow(&sections[i], &sections[i].Fields[j])); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes buffered rows.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error reports any error from a previous write or flush.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a complete field CSV for a review, BOM included.
func WriteCSV(out io.Writer, data *domain.ParseReviewData) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewCSVWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteSections(data.Sections); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func fieldRow(sec *domain.ParsedSection, f *domain.ParsedField) []string {
	page, line, source := "", "", ""
	if f.Provenance != nil {
		if f.Provenance.Page > 0 {
			page = strconv.Itoa(f.Provenance.Page)
		}
		line = strconv.Itoa(f.Provenance.Line + 1)
		source = f.Provenance.SourceText
	}
	return []string{
		sec.SectionName,
		formatBool(sec.IsVisible),
		f.FieldName,
		f.Metadata[domain.MetaEntryID],
		escapeFormula(f.OriginalValue),
		escapeFormula(f.CorrectedValue),
		string(f.Status),
		formatConfidence(f.Confidence),
		page,
		line,
		escapeFormula(source),
		strings.Join(f.Warnings, "; "),
	}
}

func formatConfidence(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// escapeFormula keeps spreadsheet applications from evaluating résumé text
// that starts like a formula.
func escapeFormula(s string) string {
	if s != "" && strings.ContainsRune("=+-@", rune(s[0])) {
		return "'" + s
	}
	return s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a file name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "resume"
	}
	return s
}

// BuildFilename returns {original name without extension}_{YYYY-MM-DD}.{ext}.
func BuildFilename(originalName, ext string) string {
	base := originalName
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), time.Now().Format("2006-01-02"), ext)
}
