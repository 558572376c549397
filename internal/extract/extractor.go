package extract

import (
	"errors"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"resumeparse/internal/domain"
)

// DefaultMinTextChars is the minimum amount of printable text a document must yield.
const DefaultMinTextChars = 50

// Config holds text extraction settings.
type Config struct {
	MinTextChars int
}

// Extractor normalizes supported documents into a single UTF-8 text blob.
type Extractor struct {
	minChars int
}

// NewExtractor creates an Extractor. A non-positive MinTextChars uses the default.
func NewExtractor(cfg Config) *Extractor {
	minChars := cfg.MinTextChars
	if minChars <= 0 {
		minChars = DefaultMinTextChars
	}
	return &Extractor{minChars: minChars}
}

// ResolveFormat determines the document format from the declared media type,
// falling back to the file extension when the media type is absent or generic.
func ResolveFormat(mediaType, fileName string) (domain.FileFormat, error) {
	if mediaType != "" {
		mt, _, err := mime.ParseMediaType(mediaType)
		if err == nil {
			if f, ok := domain.AllowedMediaTypes[strings.ToLower(mt)]; ok {
				return f, nil
			}
			if mt != "application/octet-stream" {
				return "", fmt.Errorf("media type %q: %w", mt, domain.ErrUnsupportedFormat)
			}
		}
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if f, ok := domain.AllowedExtensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("file %q: %w", fileName, domain.ErrUnsupportedFormat)
}

// Extract decodes a raw document. It fails with domain.ErrUnsupportedFormat,
// domain.ErrDecodingFailure (as *DecodeError) or domain.ErrEmptyExtraction.
func (e *Extractor) Extract(doc domain.RawDocument) (*domain.ExtractedText, error) {
	format, err := ResolveFormat(doc.MediaType, doc.FileName)
	if err != nil {
		return nil, err
	}
	dec, err := decoderFor(format)
	if err != nil {
		return nil, err
	}

	pages, err := safeDecode(format, dec, doc.Bytes)
	if err != nil {
		log.Printf("extract.Extract: %s decoder failed for %q: %v", format, doc.FileName, err)
		return nil, err
	}

	out := &domain.ExtractedText{Format: format}
	var sb strings.Builder
	line := 0
	for i, p := range pages {
		text := normalize(p.Text)
		if format == domain.FormatPDF {
			out.PageStarts = append(out.PageStarts, line)
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(text)
		line += strings.Count(text, "\n") + 1
	}
	out.Text = sb.String()

	if n := printableCount(out.Text); n < e.minChars {
		log.Printf("extract.Extract: %q yielded %d printable chars (min %d)", doc.FileName, n, e.minChars)
		return nil, fmt.Errorf("%d printable characters: %w", n, domain.ErrEmptyExtraction)
	}
	return out, nil
}

func safeDecode(format domain.FileFormat, dec Decoder, data []byte) (pages []Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &DecodeError{Format: format, Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()
	pages, err = dec(data)
	if err != nil {
		var de *DecodeError
		if !errors.As(err, &de) {
			err = &DecodeError{Format: format, Err: err}
		}
	}
	return pages, err
}

// normalize converts line endings to \n, repairs invalid UTF-8, drops control
// characters and trims trailing whitespace from every line.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\u00a0':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRightFunc(l, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

func printableCount(s string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsPrint(r) {
			n++
		}
	}
	return n
}
