package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger, sessions SessionInvalidator) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger, sessions),
		studentService: studentService,
	}
}

// ListStudents lists students with optional filtering
// @Summary List students
// @Tags students
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (name)"
// @Param chapter_id query int false "Chapter"
// @Success 200 {object} models.PageResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	limit, offset := parsePaging(c)
	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))

	filters := repositories.StudentFilters{
		ChapterID:       parseUintQuery(c, "chapter_id"),
		Query:           c.Query("q"),
		IncludeArchived: includeArchived,
		Limit:           limit,
		Offset:          offset,
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
	}

	page, err := h.studentService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetStudent returns a student with guardians and teachers
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} models.Student
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.CreateStudentRequest true "Student"
// @Success 201 {object} models.Student
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating student", "chapter_id", req.ChapterID)

	student, err := h.studentService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param student body services.UpdateStudentRequest true "Changed fields"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	student, err := h.studentService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// @Summary Archive student
// @Tags students
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) ArchiveStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Archiving student", "student_id", id)

	if err := h.studentService.Archive(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== GUARDIANS =====

// @Summary Add guardian
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param guardian body services.GuardianRequest true "Guardian"
// @Success 201 {object} models.StudentGuardian
// @Router /students/{id}/guardians [post]
func (h *StudentHandler) AddGuardian(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.GuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	guardian, err := h.studentService.AddGuardian(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, guardian)
}

// @Summary Update guardian
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param guardian_id path int true "Guardian ID"
// @Param guardian body services.GuardianRequest true "Guardian"
// @Success 200 {object} models.StudentGuardian
// @Router /students/{id}/guardians/{guardian_id} [put]
func (h *StudentHandler) UpdateGuardian(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	guardianID := h.parseIDParam(c, "guardian_id")
	if guardianID == 0 {
		return
	}

	var req services.GuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	guardian, err := h.studentService.UpdateGuardian(c.Request.Context(), id, guardianID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, guardian)
}

// @Summary Remove guardian
// @Tags students
// @Param id path int true "Student ID"
// @Param guardian_id path int true "Guardian ID"
// @Success 204
// @Router /students/{id}/guardians/{guardian_id} [delete]
func (h *StudentHandler) RemoveGuardian(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	guardianID := h.parseIDParam(c, "guardian_id")
	if guardianID == 0 {
		return
	}

	if err := h.studentService.RemoveGuardian(c.Request.Context(), id, guardianID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== TEACHERS =====

// @Summary Add teacher
// @Tags students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param teacher body services.TeacherRequest true "Teacher"
// @Success 201 {object} models.StudentTeacher
// @Router /students/{id}/teachers [post]
func (h *StudentHandler) AddTeacher(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	teacher, err := h.studentService.AddTeacher(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, teacher)
}

// @Summary Update teacher
// @Tags students
// @Router /students/{id}/teachers/{teacher_id} [put]
func (h *StudentHandler) UpdateTeacher(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	var req services.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	teacher, err := h.studentService.UpdateTeacher(c.Request.Context(), id, teacherID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, teacher)
}

// @Summary Remove teacher
// @Tags students
// @Router /students/{id}/teachers/{teacher_id} [delete]
func (h *StudentHandler) RemoveTeacher(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID := h.parseIDParam(c, "teacher_id")
	if teacherID == 0 {
		return
	}

	if err := h.studentService.RemoveTeacher(c.Request.Context(), id, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ===== MENTORS =====

// AssignMentor pairs a mentor from the same chapter with the student
// @Summary Assign mentor
// @Tags students
// @Accept json
// @Param id path int true "Student ID"
// @Param assignment body validator.MentorAssignmentRequest true "Mentor"
// @Success 204
// @Router /students/{id}/mentors [post]
func (h *StudentHandler) AssignMentor(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req validator.MentorAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}
	if req.UserID == 0 {
		h.handleServiceError(c, validator.NewValidationError("user_id", "is required", nil))
		return
	}

	h.LogRequest(c, "Assigning mentor", "student_id", id, "user_id", req.UserID)

	if err := h.studentService.AssignMentor(c.Request.Context(), id, req.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Unassign mentor
// @Tags students
// @Param id path int true "Student ID"
// @Param user_id path int true "Mentor ID"
// @Success 204
// @Router /students/{id}/mentors/{user_id} [delete]
func (h *StudentHandler) UnassignMentor(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	userID := h.parseIDParam(c, "user_id")
	if userID == 0 {
		return
	}

	h.LogRequest(c, "Unassigning mentor", "student_id", id, "user_id", userID)

	if err := h.studentService.UnassignMentor(c.Request.Context(), id, userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
