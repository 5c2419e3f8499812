package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger, sessions SessionInvalidator) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger, sessions),
		sessionService: sessionService,
	}
}

// ListSessions lists the sessions of a chapter
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Param chapter_id query int true "Chapter"
// @Param mentor_id query int false "Mentor"
// @Param student_id query int false "Student"
// @Param start_date query string false "From (YYYY-MM-DD), used with end_date"
// @Param end_date query string false "To (YYYY-MM-DD), used with start_date"
// @Param is_completed query bool false "Only completed sessions"
// @Param is_signed_off query bool false "Only signed off sessions"
// @Param page_number query int false "Zero based page"
// @Param page_size query int false "Page size (default: 10)"
// @Success 200 {object} models.PageResponse
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	filters, ok := h.parseSessionFilters(c)
	if !ok {
		return
	}

	page, err := h.sessionService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary Count sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /sessions/count [get]
func (h *SessionHandler) CountSessions(c *gin.Context) {
	filters, ok := h.parseSessionFilters(c)
	if !ok {
		return
	}

	count, err := h.sessionService.Count(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// ExportSessions downloads the filtered sessions as a spreadsheet
// @Summary Export sessions
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /sessions/export [get]
func (h *SessionHandler) ExportSessions(c *gin.Context) {
	filters, ok := h.parseSessionFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting sessions", "chapter_id", filters.ChapterID)

	data, err := h.sessionService.Export(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("sessions-%d-%s.xlsx", filters.ChapterID, time.Now().UTC().Format(validator.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.MentorSession
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, err := h.sessionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// CreateSession books a mentor for a day
// @Summary Create session
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.CreateSessionRequest true "Session"
// @Success 201 {object} models.MentorSession
// @Failure 409 {object} models.ErrorResponse "Mentor already booked that day"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating session", "chapter_id", req.ChapterID, "mentor_id", req.MentorID)

	session, err := h.sessionService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// @Summary Change mentor and student of a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param assignment body services.SessionAssignmentRequest true "Assignment"
// @Success 200 {object} models.MentorSession
// @Router /sessions/{id}/assignment [put]
func (h *SessionHandler) UpdateAssignment(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SessionAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	session, err := h.sessionService.UpdateAssignment(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary Remove session
// @Tags sessions
// @Param id path int true "Session ID"
// @Success 204
// @Failure 409 {object} models.ErrorResponse "Session already completed"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) RemoveSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Removing session", "session_id", id)

	if err := h.sessionService.Remove(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Complete session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param report body services.CompleteSessionRequest true "Report"
// @Success 200 {object} models.MentorSession
// @Router /sessions/{id}/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	session, err := h.sessionService.Complete(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary Sign off session
// @Tags sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} models.MentorSession
// @Router /sessions/{id}/sign-off [post]
func (h *SessionHandler) SignOffSession(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	session, err := h.sessionService.SignOff(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ===== HELPER METHODS =====

// parseSessionFilters writes a 400 and returns false on malformed dates.
// Missing chapter is left for the service to reject.
func (h *SessionHandler) parseSessionFilters(c *gin.Context) (repositories.SessionFilters, bool) {
	filters := repositories.SessionFilters{
		MentorID:   parseUintQuery(c, "mentor_id"),
		StudentID:  parseUintQuery(c, "student_id"),
		PageNumber: parseIntQuery(c, "page_number", 0),
		PageSize:   parseIntQuery(c, "page_size", repositories.DefaultSessionPageSize),
	}
	if chapterID := parseUintQuery(c, "chapter_id"); chapterID != nil {
		filters.ChapterID = *chapterID
	}
	filters.IsCompleted, _ = strconv.ParseBool(c.Query("is_completed"))
	filters.IsSignedOff, _ = strconv.ParseBool(c.Query("is_signed_off"))

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &filters.StartDate},
		{"end_date", &filters.EndDate},
	} {
		value := c.Query(p.name)
		if value == "" {
			continue
		}
		t, err := validator.ParseDate(value)
		if err != nil {
			h.handleServiceError(c, validator.NewValidationError(p.name, "must be a date in YYYY-MM-DD format", value))
			return filters, false
		}
		*p.dst = &t
	}

	return filters, true
}
