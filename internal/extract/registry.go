package extract

import (
	"fmt"

	"resumeparse/internal/domain"
)

// Page is the text of one page of a paginated document.
type Page struct {
	Text string
}

// Decoder converts raw document bytes into pages of text. Unpaginated
// formats return a single page.
type Decoder func(data []byte) ([]Page, error)

// registry of format decoders, populated by init() in each decoder file
// or explicitly via RegisterDecoder.
var decoders = map[domain.FileFormat]Decoder{}

// RegisterDecoder registers a decoder for a format, replacing any previous one.
func RegisterDecoder(format domain.FileFormat, dec Decoder) {
	decoders[format] = dec
}

func decoderFor(format domain.FileFormat) (Decoder, error) {
	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("no decoder for format %q: %w", format, domain.ErrUnsupportedFormat)
	}
	return dec, nil
}
