package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"resumeparse/internal/domain"
)

func init() {
	RegisterDecoder(domain.FormatDOCX, decodeDOCX)
}

const docxBodyPart = "word/document.xml"

// decodeDOCX reads paragraph text from the main document part of an Open XML
// package. Tabs and explicit breaks are kept; all other markup is dropped.
func decodeDOCX(data []byte) ([]Page, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, errors.New("no word/document.xml found in docx")
	}

	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	text, err := docxParagraphs(rc)
	if err != nil {
		return nil, err
	}
	return []Page{{Text: text}}, nil
}

func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", docxBodyPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
