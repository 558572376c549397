package extract

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"resumeparse/internal/domain"
)

func init() {
	api.DisableConfigDir()
	RegisterDecoder(domain.FormatPDF, decodePDF)
}

// decodePDF returns the text of every page, one line per text row, rows in
// top-to-bottom reading order. Files the row reader cannot open, or in which
// it finds no text, are read again from their content streams with pdfcpu,
// whose relaxed mode repairs broken cross-reference tables.
func decodePDF(data []byte) ([]Page, error) {
	pages, err := readPDFRows(data)
	if err == nil && !blankPages(pages) {
		return pages, nil
	}

	fallback, ferr := readPDFContent(data)
	if ferr != nil {
		if err != nil {
			return nil, fmt.Errorf("%w (pdfcpu: %v)", err, ferr)
		}
		log.Printf("extract.decodePDF: pdfcpu could not read page tree: %v", ferr)
		return pages, nil
	}
	if err != nil {
		log.Printf("extract.decodePDF: row reader failed, using pdfcpu content streams: %v", err)
	}
	return fallback, nil
}

func readPDFRows(data []byte) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("row reader panic: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}

	numPages := r.NumPage()
	pages = make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, Page{})
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("reading page %d: %w", i, err)
		}
		pages = append(pages, Page{Text: joinRows(rows)})
	}
	return pages, nil
}

// readPDFContent reads each page's content stream with pdfcpu and collects
// the strings shown by its text operators.
func readPDFContent(data []byte) ([]Page, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadAndValidate(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, ctx.PageCount)
	for i := 1; i <= ctx.PageCount; i++ {
		r, err := pdfcpu.ExtractPageContent(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", i, err)
		}
		if r == nil {
			pages = append(pages, Page{})
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("page %d content: %w", i, err)
		}
		pages = append(pages, Page{Text: contentText(content)})
	}
	return pages, nil
}

func blankPages(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

func joinRows(rows pdf.Rows) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		texts := append(pdf.TextHorizontal{}, row.Content...)
		sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

		var sb strings.Builder
		for i, t := range texts {
			if i > 0 {
				prev := texts[i-1]
				gap := t.X - (prev.X + prev.W)
				if gap > prev.FontSize*0.25 && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(t.S)
		}
		lines = append(lines, strings.TrimSpace(sb.String()))
	}
	return strings.Join(lines, "\n")
}
