package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"resumeparse/internal/domain"
	"resumeparse/internal/handler"
	"resumeparse/internal/router"
	"resumeparse/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newEngine() (*gin.Engine, *mocks.MockReviewService) {
	gin.SetMode(gin.TestMode)
	svc := new(mocks.MockReviewService)
	r := router.Setup(handler.NewReviewHandler(svc), handler.NewHealthHandler(okPinger{}), []string{"http://localhost:3000"})
	return r, svc
}

func TestRouter_Health(t *testing.T) {
	r, _ := newEngine()

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestRouter_FieldRoutes(t *testing.T) {
	r, svc := newEngine()
	id, sectionID, fieldID := uuid.New(), uuid.New(), uuid.New()
	base := "/api/v1/reviews/" + id.String() + "/sections/" + sectionID.String()

	svc.On("Correct", mock.Anything, id, sectionID, fieldID, "Go").Return(&domain.ParsedField{ID: fieldID}, nil)
	svc.On("MarkUnknown", mock.Anything, id, sectionID, fieldID).Return(&domain.ParsedField{ID: fieldID}, nil)
	svc.On("ToggleSectionVisibility", mock.Anything, id, sectionID).Return(true, nil)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodPut, base + "/fields/" + fieldID.String(), `{"value":"Go"}`},
		{http.MethodPost, base + "/fields/" + fieldID.String() + "/unknown", ""},
		{http.MethodPost, base + "/toggle-visibility", ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, tt.path)
	}
	svc.AssertExpectations(t)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := newEngine()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/candidates", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
