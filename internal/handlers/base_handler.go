package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

// SessionInvalidator ends the session of the current request
type SessionInvalidator interface {
	InvalidateSession(c *gin.Context)
}

type BaseHandler struct {
	logger   utils.Logger
	sessions SessionInvalidator
}

func NewBaseHandler(logger utils.Logger, sessions SessionInvalidator) BaseHandler {
	return BaseHandler{logger: logger, sessions: sessions}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLogger(c, h.logger)
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	args = append(args, "method", c.Request.Method, "path", c.FullPath())
	if azureID := c.GetString(ContextKeyAzureID); azureID != "" {
		args = append(args, "azure_id", azureID)
	}
	h.log(c).Debug(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.FullPath())
	h.log(c).Error(msg, args...)
}

func (h *BaseHandler) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

func (h *BaseHandler) badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{
		Error:     "bad_request",
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

// handleServiceError maps service errors to responses. Internal details are
// logged, never returned.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		details := make([]models.ValidationErrorResponse, 0, len(validationErrs))
		for _, ve := range validationErrs {
			details = append(details, models.ValidationErrorResponse{
				Field:   ve.Field,
				Message: ve.Message,
				Value:   ve.Value,
			})
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:            "validation_failed",
			Message:          "Request validation failed",
			Timestamp:        time.Now().UTC(),
			Path:             c.Request.URL.Path,
			ValidationErrors: details,
		})

	case services.IsNotFound(err):
		h.respondError(c, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, services.ErrProvisioningInProgress):
		h.respondError(c, http.StatusConflict, "in_progress", err.Error())

	case services.IsConflictError(err):
		h.respondError(c, http.StatusConflict, "conflict", err.Error())

	case repositories.IsDirectoryError(err):
		// The directory rejected our credentials or is down; the session
		// can no longer be trusted
		h.LogError(c, err, "Directory call failed, ending session")
		if h.sessions != nil {
			h.sessions.InvalidateSession(c)
		}
		c.Header("Location", LogoutPath)
		h.respondError(c, http.StatusUnauthorized, "directory_unavailable", "Please sign in again")

	default:
		h.LogError(c, err, "Request failed")
		h.respondError(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// parseIDParam reads a positive numeric path parameter. It writes the 400
// response and returns 0 when the parameter is invalid.
func (h *BaseHandler) parseIDParam(c *gin.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.badRequest(c, "Invalid "+name, nil)
		return 0
	}
	return uint(id)
}

func parseUintQuery(c *gin.Context, name string) *uint {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	u := uint(id)
	return &u
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// parsePaging turns page/size query values (page is one based) into
// limit/offset
func parsePaging(c *gin.Context) (limit, offset int) {
	page := max(parseIntQuery(c, "page", 1), 1)
	size := parseIntQuery(c, "size", services.DefaultPageSize)
	if size <= 0 {
		size = services.DefaultPageSize
	}
	return size, (page - 1) * size
}
