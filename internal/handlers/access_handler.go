package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

// AccessHandler serves the signed-in identity's own view of the application
type AccessHandler struct {
	BaseHandler
	accessService services.AccessService
}

func NewAccessHandler(accessService services.AccessService, logger utils.Logger, sessions SessionInvalidator) *AccessHandler {
	return &AccessHandler{
		BaseHandler:   NewBaseHandler(logger, sessions),
		accessService: accessService,
	}
}

// GetMe returns the caller's directory identity and roles
// @Summary Current identity
// @Tags access
// @Produce json
// @Success 200 {object} services.DirectoryUserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /me [get]
func (h *AccessHandler) GetMe(c *gin.Context) {
	azureID, ok := AzureIDFromContext(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	h.LogRequest(c, "Getting current identity")

	roles, identity, err := h.accessService.CurrentRoles(c.Request.Context(), azureID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, services.DirectoryUserResponse{ExternalIdentity: identity, Roles: roles})
}

// GetLanding tells the client which area the caller enters
// @Summary Landing decision
// @Tags access
// @Produce json
// @Success 200 {object} services.LandingResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /me/landing [get]
func (h *AccessHandler) GetLanding(c *gin.Context) {
	azureID, ok := AzureIDFromContext(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	landing, err := h.accessService.Landing(c.Request.Context(), azureID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, landing)
}

// SignVolunteerAgreement completes onboarding
// @Summary Sign the volunteer agreement
// @Tags access
// @Produce json
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse "No local user linked to the identity"
// @Router /me/volunteer-agreement [post]
func (h *AccessHandler) SignVolunteerAgreement(c *gin.Context) {
	azureID, ok := AzureIDFromContext(c)
	if !ok {
		h.respondError(c, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	h.LogRequest(c, "Signing volunteer agreement")

	user, err := h.accessService.SignVolunteerAgreement(c.Request.Context(), azureID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
