package domain

import "errors"

var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrEmptyExtraction    = errors.New("document contains too little text")
	ErrDecodingFailure    = errors.New("document could not be decoded")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrReviewNotFound     = errors.New("review not found")
	ErrSectionNotFound    = errors.New("section not found")
	ErrFieldNotFound      = errors.New("field not found")
	ErrSnapshotNotFound   = errors.New("snapshot not found")
	ErrReviewNotOpen      = errors.New("review has not been opened")
	ErrReviewClosed       = errors.New("review is already completed or cancelled")
	ErrReviewNotFinalized = errors.New("review has not been finalized")
	ErrInvalidResume      = errors.New("finalized resume does not match expected format")
	ErrUploadFailed       = errors.New("file upload to storage failed")
	ErrSourceNotArchived  = errors.New("original document was not archived")
	ErrInvalidExportType  = errors.New("unsupported export format")
)
