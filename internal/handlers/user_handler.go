package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

type UserHandler struct {
	BaseHandler
	userService         services.UserService
	provisioningService services.ProvisioningService
	studentService      services.StudentService
}

func NewUserHandler(
	userService services.UserService,
	provisioningService services.ProvisioningService,
	studentService services.StudentService,
	logger utils.Logger,
	sessions SessionInvalidator,
) *UserHandler {
	return &UserHandler{
		BaseHandler:         NewBaseHandler(logger, sessions),
		userService:         userService,
		provisioningService: provisioningService,
		studentService:      studentService,
	}
}

// ListUsers lists mentors with optional filtering
// @Summary List users
// @Description Get a paginated list of mentors
// @Tags users
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20, max: 100)"
// @Param q query string false "Search query (name or email)"
// @Param chapter_id query int false "Chapter"
// @Param include_archived query bool false "Include archived mentors"
// @Success 200 {object} models.PageResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	page, err := h.userService.List(c.Request.Context(), h.parseUserFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "Mentor"
// @Success 201 {object} models.User
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Email already in use"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Creating user", "chapter_id", req.ChapterID)

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body services.UpdateUserRequest true "Changed fields"
// @Success 200 {object} models.User
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Updating user", "user_id", id)

	user, err := h.userService.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ArchiveUser ends a mentor's involvement. The record is kept.
// @Summary Archive user
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Router /users/{id} [delete]
func (h *UserHandler) ArchiveUser(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Archiving user", "user_id", id)

	if err := h.userService.Archive(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Update Working-With-Children check
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param check body services.WWCCheckRequest true "Check"
// @Success 200 {object} models.WWCCheck
// @Router /users/{id}/wwc-check [put]
func (h *UserHandler) UpdateWWCCheck(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.WWCCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	check, err := h.userService.UpdateWWCCheck(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// @Summary Update police check
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param check body services.PoliceCheckRequest true "Check"
// @Success 200 {object} models.PoliceCheck
// @Router /users/{id}/police-check [put]
func (h *UserHandler) UpdatePoliceCheck(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.PoliceCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	check, err := h.userService.UpdatePoliceCheck(c.Request.Context(), id, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, check)
}

// GiveAccess invites the mentor into the directory and links the record
// @Summary Give directory access
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Already linked or provisioning in progress"
// @Failure 401 {object} models.ErrorResponse "Directory unavailable, sign in again"
// @Router /users/{id}/give-access [post]
func (h *UserHandler) GiveAccess(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Giving directory access", "user_id", id)

	user, err := h.provisioningService.GiveAccess(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List mentees
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Student
// @Router /users/{id}/mentees [get]
func (h *UserHandler) ListMentees(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	students, err := h.studentService.ListMentees(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	limit, offset := parsePaging(c)
	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))

	return repositories.UserFilters{
		ChapterID:       parseUintQuery(c, "chapter_id"),
		Query:           c.Query("q"),
		IncludeArchived: includeArchived,
		Limit:           limit,
		Offset:          offset,
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
	}
}
