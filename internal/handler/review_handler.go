package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resumeparse/internal/service"
)

// ReviewHandler handles résumé upload and review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CorrectFieldRequest is the body of a field correction.
type CorrectFieldRequest struct {
	Value *string `json:"value" binding:"required"`
}

// SplitFieldRequest is the body of a field split.
type SplitFieldRequest struct {
	Offset *int `json:"offset" binding:"required"`
}

// CreateSnapshotRequest is the body of a manual snapshot.
type CreateSnapshotRequest struct {
	Description string `json:"description"`
}

// Upload handles POST /api/v1/reviews
// @Summary Upload a résumé
// @Description Upload a résumé (txt, pdf, doc, docx), parse it and open a review
// @Tags reviews
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Résumé document"
// @Success 201 {object} APIResponse{data=service.ReviewView} "Review opened"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "Document could not be read"
// @Router /reviews [post]
func (h *ReviewHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	view, err := h.reviewService.Upload(c.Request.Context(), service.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// List handles GET /api/v1/reviews
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.ReviewRecord,meta=PagMeta}
// @Router /reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	reviews, total, err := h.reviewService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, reviews, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Get handles GET /api/v1/reviews/:id
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Success 200 {object} APIResponse{data=service.ReviewView}
// @Failure 404 {object} APIResponse "Review not found"
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	view, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// CorrectField handles PUT /api/v1/reviews/:id/sections/:sectionId/fields/:fieldId
func (h *ReviewHandler) CorrectField(c *gin.Context) {
	id, sectionID, fieldID, ok := fieldParams(c)
	if !ok {
		return
	}

	var req CorrectFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "value is required")
		return
	}

	field, err := h.reviewService.Correct(c.Request.Context(), id, sectionID, fieldID, *req.Value)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, field)
}

// CopyFromSource handles POST /api/v1/reviews/:id/sections/:sectionId/fields/:fieldId/copy-source
func (h *ReviewHandler) CopyFromSource(c *gin.Context) {
	id, sectionID, fieldID, ok := fieldParams(c)
	if !ok {
		return
	}

	field, err := h.reviewService.CopyFromSource(c.Request.Context(), id, sectionID, fieldID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, field)
}

// MarkUnknown handles POST /api/v1/reviews/:id/sections/:sectionId/fields/:fieldId/unknown
func (h *ReviewHandler) MarkUnknown(c *gin.Context) {
	id, sectionID, fieldID, ok := fieldParams(c)
	if !ok {
		return
	}

	field, err := h.reviewService.MarkUnknown(c.Request.Context(), id, sectionID, fieldID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, field)
}

// SplitField handles POST /api/v1/reviews/:id/sections/:sectionId/fields/:fieldId/split.
// A split that would leave either half blank succeeds with split=false.
func (h *ReviewHandler) SplitField(c *gin.Context) {
	id, sectionID, fieldID, ok := fieldParams(c)
	if !ok {
		return
	}

	var req SplitFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "offset is required")
		return
	}

	created, err := h.reviewService.SplitField(c.Request.Context(), id, sectionID, fieldID, *req.Offset)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"split": created != nil, "field": created})
}

// ToggleSectionVisibility handles POST /api/v1/reviews/:id/sections/:sectionId/toggle-visibility
func (h *ReviewHandler) ToggleSectionVisibility(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}
	sectionID, ok := parseUUIDParam(c, "sectionId", "section")
	if !ok {
		return
	}

	visible, err := h.reviewService.ToggleSectionVisibility(c.Request.Context(), id, sectionID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"section_id": sectionID, "is_visible": visible})
}

// ListSnapshots handles GET /api/v1/reviews/:id/snapshots
func (h *ReviewHandler) ListSnapshots(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	snaps, err := h.reviewService.ListSnapshots(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, snaps)
}

// CreateSnapshot handles POST /api/v1/reviews/:id/snapshots
func (h *ReviewHandler) CreateSnapshot(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	var req CreateSnapshotRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
			return
		}
	}

	snap, err := h.reviewService.CreateSnapshot(c.Request.Context(), id, req.Description)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, snap)
}

// Revert handles POST /api/v1/reviews/:id/snapshots/:snapshotId/revert
func (h *ReviewHandler) Revert(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}
	snapshotID, ok := parseUUIDParam(c, "snapshotId", "snapshot")
	if !ok {
		return
	}

	view, err := h.reviewService.Revert(c.Request.Context(), id, snapshotID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Finalize handles POST /api/v1/reviews/:id/finalize
// @Summary Finalize a review
// @Description Completes the review and returns the résumé record with all corrections
// @Tags reviews
// @Produce json
// @Param id path string true "Review ID (UUID)"
// @Success 200 {object} APIResponse{data=service.FinalizeResult}
// @Failure 409 {object} APIResponse "Review already closed"
// @Failure 422 {object} APIResponse "Résumé does not match the expected format"
// @Router /reviews/{id}/finalize [post]
func (h *ReviewHandler) Finalize(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	res, err := h.reviewService.Finalize(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// Cancel handles POST /api/v1/reviews/:id/cancel
func (h *ReviewHandler) Cancel(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	if err := h.reviewService.Cancel(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "review cancelled"})
}

// GetResume handles GET /api/v1/reviews/:id/resume
func (h *ReviewHandler) GetResume(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	rec, err := h.reviewService.GetResume(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, rec)
}

// Export handles GET /api/v1/reviews/:id/export/:format
// @Summary Export a review
// @Tags reviews
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Param id path string true "Review ID (UUID)"
// @Param format path string true "xlsx or csv"
// @Router /reviews/{id}/export/{format} [get]
func (h *ReviewHandler) Export(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	file, err := h.reviewService.Export(c.Request.Context(), id, c.Param("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.FileName))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

// SourceURL handles GET /api/v1/reviews/:id/source
func (h *ReviewHandler) SourceURL(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "review")
	if !ok {
		return
	}

	url, err := h.reviewService.SourceURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}

// parseUUIDParam parses a UUID path parameter. On failure it writes a 400
// response and returns false.
func parseUUIDParam(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func fieldParams(c *gin.Context) (id, sectionID, fieldID uuid.UUID, ok bool) {
	if id, ok = parseUUIDParam(c, "id", "review"); !ok {
		return
	}
	if sectionID, ok = parseUUIDParam(c, "sectionId", "section"); !ok {
		return
	}
	fieldID, ok = parseUUIDParam(c, "fieldId", "field")
	return
}
