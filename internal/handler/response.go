package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumeparse/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrReviewNotFound):
		return http.StatusNotFound, "REVIEW_NOT_FOUND", "review not found"
	case errors.Is(err, domain.ErrSectionNotFound):
		return http.StatusNotFound, "SECTION_NOT_FOUND", "section not found"
	case errors.Is(err, domain.ErrFieldNotFound):
		return http.StatusNotFound, "FIELD_NOT_FOUND", "field not found"
	case errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound, "SNAPSHOT_NOT_FOUND", "snapshot not found"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: txt, pdf, doc, docx"
	case errors.Is(err, domain.ErrEmptyExtraction):
		return http.StatusUnprocessableEntity, "EMPTY_EXTRACTION", "document contains too little text to parse"
	case errors.Is(err, domain.ErrDecodingFailure):
		return http.StatusUnprocessableEntity, "DECODING_FAILED", "document could not be decoded"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrReviewNotOpen):
		return http.StatusConflict, "REVIEW_NOT_OPEN", "review has not been opened"
	case errors.Is(err, domain.ErrReviewClosed):
		return http.StatusConflict, "REVIEW_CLOSED", "review is already completed or cancelled"
	case errors.Is(err, domain.ErrReviewNotFinalized):
		return http.StatusConflict, "REVIEW_NOT_FINALIZED", "review has not been finalized yet"
	case errors.Is(err, domain.ErrInvalidResume):
		return http.StatusUnprocessableEntity, "INVALID_RESUME", "finalized resume does not match expected format"
	case errors.Is(err, domain.ErrSourceNotArchived):
		return http.StatusNotFound, "SOURCE_NOT_ARCHIVED", "original document was not archived"
	case errors.Is(err, domain.ErrInvalidExportType):
		return http.StatusBadRequest, "INVALID_EXPORT_TYPE", "unsupported export format; allowed: xlsx, csv"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}

// parsePagination reads offset and limit query parameters, clamping limit to 1..100.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
