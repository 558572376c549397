package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeparse/internal/domain"
	"resumeparse/internal/handler"
	"resumeparse/internal/review"
	"resumeparse/internal/service"
	"resumeparse/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newReviewHandler() (*handler.ReviewHandler, *mocks.MockReviewService) {
	svc := new(mocks.MockReviewService)
	return handler.NewReviewHandler(svc), svc
}

func decode(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func jsonRequest(method, path, body string) *http.Request {
	req, _ := http.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestReviewHandler_Upload_Success(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()

	svc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.FileName == "cv.txt" && in.Size > 0
	})).Return(&service.ReviewView{
		ParseReviewData: &domain.ParseReviewData{ID: id, OriginalFileName: "cv.txt"},
		State:           review.StateEditing,
	}, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "cv.txt")
	_, _ = part.Write([]byte("John Smith\njohn@x.com"))
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reviews", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, id.String(), data["id"])
	assert.Equal(t, "editing", data["state"])
	svc.AssertExpectations(t)
}

func TestReviewHandler_Upload_MissingFile(t *testing.T) {
	h, svc := newReviewHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reviews", http.NoBody)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", decode(t, w).Error.Code)
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestReviewHandler_Upload_Unsupported(t *testing.T) {
	h, svc := newReviewHandler()
	svc.On("Upload", mock.Anything, mock.AnythingOfType("service.UploadInput")).
		Return(nil, domain.ErrUnsupportedFormat)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "photo.png")
	_, _ = part.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reviews", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", decode(t, w).Error.Code)
}

func TestReviewHandler_Get_InvalidID(t *testing.T) {
	h, _ := newReviewHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reviews/nope", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
}

func TestReviewHandler_Get_NotFound(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()
	svc.On("Get", mock.Anything, id).Return(nil, domain.ErrReviewNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reviews/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "REVIEW_NOT_FOUND", decode(t, w).Error.Code)
}

func TestReviewHandler_List(t *testing.T) {
	h, svc := newReviewHandler()
	svc.On("List", mock.Anything, 10, 20).Return([]domain.ReviewRecord{{ID: uuid.New()}}, 11, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reviews?offset=10&limit=500", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 11, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func fieldContext(w *httptest.ResponseRecorder, method, body string, id, sectionID, fieldID uuid.UUID) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(method, "/api/v1/reviews/x", body)
	c.Params = gin.Params{
		{Key: "id", Value: id.String()},
		{Key: "sectionId", Value: sectionID.String()},
		{Key: "fieldId", Value: fieldID.String()},
	}
	return c
}

func TestReviewHandler_CorrectField(t *testing.T) {
	h, svc := newReviewHandler()
	id, sectionID, fieldID := uuid.New(), uuid.New(), uuid.New()

	svc.On("Correct", mock.Anything, id, sectionID, fieldID, "Jane Doe").Return(&domain.ParsedField{
		ID:             fieldID,
		CorrectedValue: "Jane Doe",
		Status:         domain.FieldStatusCorrected,
	}, nil)

	w := httptest.NewRecorder()
	c := fieldContext(w, http.MethodPut, `{"value":"Jane Doe"}`, id, sectionID, fieldID)

	h.CorrectField(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "corrected", data["status"])
	svc.AssertExpectations(t)
}

func TestReviewHandler_CorrectField_EmptyValueAllowed(t *testing.T) {
	h, svc := newReviewHandler()
	id, sectionID, fieldID := uuid.New(), uuid.New(), uuid.New()
	svc.On("Correct", mock.Anything, id, sectionID, fieldID, "").Return(&domain.ParsedField{ID: fieldID}, nil)

	w := httptest.NewRecorder()
	c := fieldContext(w, http.MethodPut, `{"value":""}`, id, sectionID, fieldID)

	h.CorrectField(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReviewHandler_CorrectField_MissingValue(t *testing.T) {
	h, svc := newReviewHandler()

	w := httptest.NewRecorder()
	c := fieldContext(w, http.MethodPut, `{}`, uuid.New(), uuid.New(), uuid.New())

	h.CorrectField(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Correct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandler_CorrectField_Closed(t *testing.T) {
	h, svc := newReviewHandler()
	id, sectionID, fieldID := uuid.New(), uuid.New(), uuid.New()
	svc.On("Correct", mock.Anything, id, sectionID, fieldID, "x").Return(nil, domain.ErrReviewClosed)

	w := httptest.NewRecorder()
	c := fieldContext(w, http.MethodPut, `{"value":"x"}`, id, sectionID, fieldID)

	h.CorrectField(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REVIEW_CLOSED", decode(t, w).Error.Code)
}

func TestReviewHandler_SplitField(t *testing.T) {
	h, svc := newReviewHandler()
	id, sectionID, fieldID := uuid.New(), uuid.New(), uuid.New()

	svc.On("SplitField", mock.Anything, id, sectionID, fieldID, 6).
		Return(&domain.ParsedField{ID: uuid.New(), CorrectedValue: "Engineer"}, nil).Once()
	svc.On("SplitField", mock.Anything, id, sectionID, fieldID, 0).Return(nil, nil).Once()

	w := httptest.NewRecorder()
	h.SplitField(fieldContext(w, http.MethodPost, `{"offset":6}`, id, sectionID, fieldID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w).Data.(map[string]interface{})["split"])

	w = httptest.NewRecorder()
	h.SplitField(fieldContext(w, http.MethodPost, `{"offset":0}`, id, sectionID, fieldID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w).Data.(map[string]interface{})["split"])
}

func TestReviewHandler_ToggleSectionVisibility(t *testing.T) {
	h, svc := newReviewHandler()
	id, sectionID := uuid.New(), uuid.New()
	svc.On("ToggleSectionVisibility", mock.Anything, id, sectionID).Return(false, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "sectionId", Value: sectionID.String()}}

	h.ToggleSectionVisibility(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w).Data.(map[string]interface{})["is_visible"])
}

func TestReviewHandler_CreateSnapshot_NoBody(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()
	svc.On("CreateSnapshot", mock.Anything, id, "").Return(&domain.ParseSnapshot{ID: uuid.New()}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.CreateSnapshot(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestReviewHandler_Revert_UnknownSnapshot(t *testing.T) {
	h, svc := newReviewHandler()
	id, snapID := uuid.New(), uuid.New()
	svc.On("Revert", mock.Anything, id, snapID).Return(nil, domain.ErrSnapshotNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "snapshotId", Value: snapID.String()}}

	h.Revert(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SNAPSHOT_NOT_FOUND", decode(t, w).Error.Code)
}

func TestReviewHandler_Finalize(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()
	svc.On("Finalize", mock.Anything, id).Return(&service.FinalizeResult{
		Resume: domain.ResumeRecord{
			Experience: []domain.Experience{},
			Education:  []domain.Education{},
			Skills:     []domain.Skill{{Name: "Go", Level: "intermediate", Category: "technical"}},
		},
		Corrections: []domain.Correction{},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Finalize(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	skills := data["resume"].(map[string]interface{})["skills"].([]interface{})
	assert.Len(t, skills, 1)
}

func TestReviewHandler_Finalize_InvalidResume(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()
	svc.On("Finalize", mock.Anything, id).Return(nil, errors.Join(domain.ErrInvalidResume, errors.New("skills/0/name")))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Finalize(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReviewHandler_Export(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()
	svc.On("Export", mock.Anything, id, "csv").Return(&service.ExportFile{
		FileName:    "cv_2026-01-01.csv",
		ContentType: "text/csv; charset=utf-8",
		Body:        []byte("Section,Visible\n"),
	}, nil)
	svc.On("Export", mock.Anything, id, "pdf").Return(nil, domain.ErrInvalidExportType)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "format", Value: "csv"}}

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="cv_2026-01-01.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Section,Visible\n", w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "format", Value: "pdf"}}

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_EXPORT_TYPE", decode(t, w).Error.Code)
}

func TestReviewHandler_Cancel(t *testing.T) {
	h, svc := newReviewHandler()
	id := uuid.New()
	svc.On("Cancel", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrEmptyExtraction, http.StatusUnprocessableEntity, "EMPTY_EXTRACTION"},
		{domain.ErrDecodingFailure, http.StatusUnprocessableEntity, "DECODING_FAILED"},
		{domain.ErrReviewNotFinalized, http.StatusConflict, "REVIEW_NOT_FINALIZED"},
		{domain.ErrSourceNotArchived, http.StatusNotFound, "SOURCE_NOT_ARCHIVED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code, _ := handler.MapDomainError(tt.err)
		assert.Equal(t, tt.status, status, tt.code)
		assert.Equal(t, tt.code, code)
	}
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	handler.NewHealthHandler(fakePinger{}).Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	handler.NewHealthHandler(fakePinger{err: errors.New("down")}).Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
