package extract_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparse/internal/domain"
	"resumeparse/internal/extract"
)

const sampleResume = "John Smith\njohn@x.com\n555-123-4567\n\nEXPERIENCE\nSenior Engineer\nAcme Corp - Remote\nJan 2020 - Present\nBuilt things\n\nSKILLS\nPython, Go, SQL"

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name      string
		mediaType string
		fileName  string
		want      domain.FileFormat
		wantErr   bool
	}{
		{"plain text", "text/plain; charset=utf-8", "cv", domain.FormatText, false},
		{"pdf", "application/pdf", "cv.bin", domain.FormatPDF, false},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "", domain.FormatDOCX, false},
		{"legacy word", "application/msword", "", domain.FormatDOC, false},
		{"octet stream falls back to extension", "application/octet-stream", "resume.DOCX", domain.FormatDOCX, false},
		{"no media type uses extension", "", "resume.pdf", domain.FormatPDF, false},
		{"image rejected", "image/png", "resume.pdf", "", true},
		{"unknown extension", "", "resume.odt", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.ResolveFormat(tt.mediaType, tt.fileName)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_PlainTextPassthrough(t *testing.T) {
	e := extract.NewExtractor(extract.Config{})

	out, err := e.Extract(domain.RawDocument{
		Bytes:     []byte(sampleResume),
		MediaType: "text/plain",
		FileName:  "resume.txt",
	})

	require.NoError(t, err)
	assert.Equal(t, sampleResume, out.Text)
	assert.Equal(t, domain.FormatText, out.Format)
	assert.Empty(t, out.PageStarts)
	assert.Equal(t, 0, out.PageOf(3))
}

func TestExtract_NormalizesLineEndings(t *testing.T) {
	e := extract.NewExtractor(extract.Config{})
	input := strings.ReplaceAll(sampleResume, "\n", "\r\n")

	out, err := e.Extract(domain.RawDocument{Bytes: []byte(input), FileName: "resume.txt"})

	require.NoError(t, err)
	assert.Equal(t, sampleResume, out.Text)
}

func TestExtract_ShortTextIsEmptyExtraction(t *testing.T) {
	e := extract.NewExtractor(extract.Config{})

	_, err := e.Extract(domain.RawDocument{
		Bytes:     []byte("John Smith\njohn@x.com"),
		MediaType: "text/plain",
		FileName:  "short.txt",
	})

	assert.ErrorIs(t, err, domain.ErrEmptyExtraction)
}

func TestExtract_CustomMinimum(t *testing.T) {
	e := extract.NewExtractor(extract.Config{MinTextChars: 5})

	out, err := e.Extract(domain.RawDocument{Bytes: []byte("John Smith"), FileName: "a.txt"})

	require.NoError(t, err)
	assert.Equal(t, "John Smith", out.Text)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	e := extract.NewExtractor(extract.Config{})

	_, err := e.Extract(domain.RawDocument{Bytes: []byte(sampleResume), MediaType: "image/jpeg", FileName: "a.jpg"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExtract_DOCX(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>jane.doe@example.com</w:t><w:tab/><w:t>(555) 987-6543</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve">EXPERIENCE </w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Product Manager</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Globex - New York</w:t></w:r></w:p>`
	e := extract.NewExtractor(extract.Config{})

	out, err := e.Extract(domain.RawDocument{
		Bytes:     buildDOCX(t, body),
		MediaType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		FileName:  "jane.docx",
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\njane.doe@example.com\t(555) 987-6543\nEXPERIENCE\nProduct Manager\nGlobex - New York", out.Text)
}

func TestExtract_DOCXMissingBody(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	_, _ = zw.Create("docProps/core.xml")
	require.NoError(t, zw.Close())
	e := extract.NewExtractor(extract.Config{})

	_, err := e.Extract(domain.RawDocument{Bytes: buf.Bytes(), FileName: "broken.docx"})

	assert.ErrorIs(t, err, domain.ErrDecodingFailure)
	var de *extract.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, domain.FormatDOCX, de.Format)
}

func TestExtract_CorruptPDF(t *testing.T) {
	e := extract.NewExtractor(extract.Config{})

	_, err := e.Extract(domain.RawDocument{
		Bytes:     []byte("this is definitely not a pdf file, just some text bytes"),
		MediaType: "application/pdf",
		FileName:  "broken.pdf",
	})

	assert.ErrorIs(t, err, domain.ErrDecodingFailure)
	assert.NotErrorIs(t, err, domain.ErrEmptyExtraction)
}

func TestExtract_CorruptDOC(t *testing.T) {
	e := extract.NewExtractor(extract.Config{})

	_, err := e.Extract(domain.RawDocument{
		Bytes:     bytes.Repeat([]byte{0x42}, 1024),
		MediaType: "application/msword",
		FileName:  "broken.doc",
	})

	assert.ErrorIs(t, err, domain.ErrDecodingFailure)
}

func TestExtract_RegisteredDecoderPanicIsDecodingFailure(t *testing.T) {
	extract.RegisterDecoder(domain.FormatText, func(data []byte) ([]extract.Page, error) {
		panic("boom")
	})
	defer extract.RegisterDecoder(domain.FormatText, func(data []byte) ([]extract.Page, error) {
		return []extract.Page{{Text: string(data)}}, nil
	})
	e := extract.NewExtractor(extract.Config{})

	_, err := e.Extract(domain.RawDocument{Bytes: []byte(sampleResume), FileName: "a.txt"})

	assert.ErrorIs(t, err, domain.ErrDecodingFailure)
}

func TestExtractedText_PagesAndOffsets(t *testing.T) {
	text := &domain.ExtractedText{Text: "a\nbb\nccc\ndddd", PageStarts: []int{0, 2}}

	assert.Equal(t, []string{"a", "bb", "ccc", "dddd"}, text.Lines())
	assert.Equal(t, 1, text.PageOf(1))
	assert.Equal(t, 2, text.PageOf(2))
	assert.Equal(t, 2, text.PageOf(3))
	assert.Equal(t, 0, text.LineOffset(0))
	assert.Equal(t, 5, text.LineOffset(2))
}
