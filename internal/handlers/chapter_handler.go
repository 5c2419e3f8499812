package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

type ChapterHandler struct {
	BaseHandler
	chapterService services.ChapterService
	sessionService services.SessionService
}

func NewChapterHandler(chapterService services.ChapterService, sessionService services.SessionService, logger utils.Logger, sessions SessionInvalidator) *ChapterHandler {
	return &ChapterHandler{
		BaseHandler:    NewBaseHandler(logger, sessions),
		chapterService: chapterService,
		sessionService: sessionService,
	}
}

// @Summary List chapters
// @Tags chapters
// @Produce json
// @Success 200 {array} models.Chapter
// @Router /chapters [get]
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	chapters, err := h.chapterService.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapters)
}

// @Summary Get chapter
// @Tags chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {object} models.Chapter
// @Router /chapters/{id} [get]
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	chapter, err := h.chapterService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// @Summary Create chapter
// @Tags chapters
// @Accept json
// @Produce json
// @Param chapter body services.ChapterRequest true "Chapter"
// @Success 201 {object} models.Chapter
// @Failure 409 {object} models.ErrorResponse "Name already in use"
// @Router /chapters [post]
func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	var req services.ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating chapter", "name", req.Name)

	chapter, err := h.chapterService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, chapter)
}

// @Summary Update chapter
// @Tags chapters
// @Accept json
// @Produce json
// @Param id path int true "Chapter ID"
// @Param chapter body services.ChapterRequest true "Chapter"
// @Success 200 {object} models.Chapter
// @Router /chapters/{id} [put]
func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Updating chapter", "chapter_id", id)

	chapter, err := h.chapterService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chapter)
}

// @Summary Mentors of a chapter
// @Tags chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {array} models.Option
// @Router /chapters/{id}/mentors [get]
func (h *ChapterHandler) ListMentors(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	options, err := h.chapterService.ListMentors(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// @Summary Students of a chapter
// @Tags chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Success 200 {array} models.Option
// @Router /chapters/{id}/students [get]
func (h *ChapterHandler) ListStudents(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	options, err := h.chapterService.ListStudents(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// SessionFilterOptions returns the mentor and student drop-downs of the
// session list
// @Summary Session filter options
// @Tags chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Param mentor_id query int false "Only students assigned to this mentor"
// @Param student_id query int false "Only mentors assigned to this student"
// @Success 200 {object} services.SessionFilterOptions
// @Router /chapters/{id}/session-filters [get]
func (h *ChapterHandler) SessionFilterOptions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	options, err := h.sessionService.FilterOptions(c.Request.Context(), id,
		parseUintQuery(c, "mentor_id"), parseUintQuery(c, "student_id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// MentorsForStudent lists the chapter's mentors with the student's assigned
// mentors first
// @Summary Mentors to book for a student
// @Tags chapters
// @Produce json
// @Param id path int true "Chapter ID"
// @Param student_id path int true "Student ID"
// @Success 200 {array} services.MentorOption
// @Router /chapters/{id}/students/{student_id}/mentors [get]
func (h *ChapterHandler) MentorsForStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}

	options, err := h.sessionService.MentorsForStudent(c.Request.Context(), id, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}
