package extract

import "resumeparse/internal/domain"

func init() {
	RegisterDecoder(domain.FormatText, decodeText)
}

func decodeText(data []byte) ([]Page, error) {
	return []Page{{Text: string(data)}}, nil
}
