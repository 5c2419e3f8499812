package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/services"
)

type fakeSessionService struct {
	services.SessionService
	filters *repositories.SessionFilters
	export  []byte
}

func (f *fakeSessionService) List(_ context.Context, filters repositories.SessionFilters) (*models.PageResponse, error) {
	f.filters = &filters
	return models.NewPageResponse([]*models.MentorSession{}, 0, filters.PageNumber, filters.PageSize), nil
}

func (f *fakeSessionService) Export(_ context.Context, filters repositories.SessionFilters) ([]byte, error) {
	f.filters = &filters
	return f.export, nil
}

func newSessionRouter(svc services.SessionService) *gin.Engine {
	h := NewSessionHandler(svc, testLogger(), nil)
	r := gin.New()
	r.GET("/sessions", h.ListSessions)
	r.GET("/sessions/export", h.ExportSessions)
	return r
}

func TestSessionHandler_ListParsesFilters(t *testing.T) {
	svc := &fakeSessionService{}
	r := newSessionRouter(svc)

	w := doRequest(r, http.MethodGet,
		"/sessions?chapter_id=3&mentor_id=5&start_date=2024-01-01&end_date=2024-03-31&is_completed=true&page_number=2", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filters)
	f := svc.filters
	assert.Equal(t, uint(3), f.ChapterID)
	require.NotNil(t, f.MentorID)
	assert.Equal(t, uint(5), *f.MentorID)
	assert.Nil(t, f.StudentID)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.True(t, f.IsCompleted)
	assert.False(t, f.IsSignedOff)
	assert.Equal(t, 2, f.PageNumber)
	assert.Equal(t, repositories.DefaultSessionPageSize, f.PageSize)
}

func TestSessionHandler_ListRejectsMalformedDate(t *testing.T) {
	svc := &fakeSessionService{}
	r := newSessionRouter(svc)

	w := doRequest(r, http.MethodGet, "/sessions?chapter_id=3&start_date=01/02/2024", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, "start_date", resp.ValidationErrors[0].Field)
	assert.Nil(t, svc.filters)
}

func TestSessionHandler_Export(t *testing.T) {
	svc := &fakeSessionService{export: []byte("PK\x03\x04workbook")}
	r := newSessionRouter(svc)

	w := doRequest(r, http.MethodGet, "/sessions/export?chapter_id=3", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="sessions-3-`)
	assert.Equal(t, svc.export, w.Body.Bytes())
}
