package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

// PermissionHandler administers directory role assignments
type PermissionHandler struct {
	BaseHandler
	permissionService services.PermissionService
}

func NewPermissionHandler(permissionService services.PermissionService, logger utils.Logger, sessions SessionInvalidator) *PermissionHandler {
	return &PermissionHandler{
		BaseHandler:       NewBaseHandler(logger, sessions),
		permissionService: permissionService,
	}
}

// ListDirectoryUsers lists every directory identity with its roles
// @Summary List directory users
// @Tags permissions
// @Produce json
// @Success 200 {array} services.DirectoryUserResponse
// @Router /permissions/users [get]
func (h *PermissionHandler) ListDirectoryUsers(c *gin.Context) {
	h.LogRequest(c, "Listing directory users")

	users, err := h.permissionService.ListDirectoryUsers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Get directory user
// @Tags permissions
// @Produce json
// @Param azure_id path string true "Directory identity id"
// @Success 200 {object} services.DirectoryUserResponse
// @Router /permissions/users/{azure_id} [get]
func (h *PermissionHandler) GetDirectoryUser(c *gin.Context) {
	azureID := c.Param("azure_id")
	if azureID == "" {
		h.badRequest(c, "Directory user id is required", nil)
		return
	}

	user, err := h.permissionService.GetDirectoryUser(c.Request.Context(), azureID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary List application roles
// @Tags permissions
// @Produce json
// @Success 200 {array} models.AppRole
// @Router /permissions/roles [get]
func (h *PermissionHandler) ListRoles(c *gin.Context) {
	roles, err := h.permissionService.ListRoles(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

// AssignRole grants an application role to a directory identity
// @Summary Assign role
// @Tags permissions
// @Accept json
// @Produce json
// @Param azure_id path string true "Directory identity id"
// @Param request body services.RoleAssignmentRequest true "Role"
// @Success 201 {object} models.AssignmentResult
// @Failure 400 {object} models.ErrorResponse
// @Router /permissions/users/{azure_id}/roles [post]
func (h *PermissionHandler) AssignRole(c *gin.Context) {
	azureID := c.Param("azure_id")

	var req services.RoleAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "Invalid request payload", err)
		return
	}

	h.LogRequest(c, "Assigning role", "target", azureID, "role_id", req.RoleID)

	result, err := h.permissionService.AssignRole(c.Request.Context(), azureID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// @Summary Remove role assignment
// @Tags permissions
// @Param assignment_id path string true "Assignment id"
// @Success 204
// @Router /permissions/assignments/{assignment_id} [delete]
func (h *PermissionHandler) RemoveRole(c *gin.Context) {
	assignmentID := c.Param("assignment_id")

	h.LogRequest(c, "Removing role assignment", "assignment_id", assignmentID)

	if err := h.permissionService.RemoveRole(c.Request.Context(), assignmentID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
