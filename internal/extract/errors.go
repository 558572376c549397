package extract

import (
	"fmt"

	"resumeparse/internal/domain"
)

// DecodeError indicates a format decoder failed on corrupt or unexpected input.
type DecodeError struct {
	Format domain.FileFormat
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports DecodeError as domain.ErrDecodingFailure.
func (e *DecodeError) Is(target error) bool {
	return target == domain.ErrDecodingFailure
}
