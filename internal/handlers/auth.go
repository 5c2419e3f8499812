package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/achievers-club/mentoring-service/internal/cache"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

const (
	LogoutPath = "/logout"

	// ContextKeyAzureID holds the directory identity id of the caller
	ContextKeyAzureID = "azure_id"

	contextKeyToken       = "session_token"
	contextKeyTokenExpiry = "session_expires_at"
)

var errNoToken = errors.New("no session token")

type AuthConfig struct {
	Issuer       string
	Audience     string
	CookieName   string
	SecureCookie bool
	Leeway       time.Duration
}

// sessionClaims are the claims of a directory-issued access token. oid is
// the object id of the signed-in identity.
type sessionClaims struct {
	jwt.RegisteredClaims
	ObjectID string `json:"oid"`
	Name     string `json:"name,omitempty"`
}

// AuthMiddleware validates directory session tokens and enforces roles
type AuthMiddleware struct {
	jwks        keyfunc.Keyfunc
	revocations *cache.RevocationStore
	access      services.AccessService
	config      AuthConfig
	logger      utils.Logger
	now         func() time.Time
}

func NewAuthMiddleware(jwks keyfunc.Keyfunc, revocations *cache.RevocationStore, access services.AccessService, config AuthConfig, logger utils.Logger) *AuthMiddleware {
	if config.CookieName == "" {
		config.CookieName = "__session"
	}
	return &AuthMiddleware{
		jwks:        jwks,
		revocations: revocations,
		access:      access,
		config:      config,
		logger:      logger.With("component", "auth"),
		now:         time.Now,
	}
}

// Authenticate rejects requests without a valid, unrevoked session token and
// stores the caller's identity id in the context
func (a *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := a.tokenFromRequest(c)
		if err != nil {
			a.unauthorized(c, "Authentication required")
			return
		}

		claims, err := a.parse(c.Request.Context(), token)
		if err != nil {
			a.logger.Debug("Session token rejected", "error", err, "client_ip", c.ClientIP())
			a.unauthorized(c, "Invalid or expired session")
			return
		}

		revoked, err := a.revocations.IsRevoked(c.Request.Context(), token)
		if err != nil {
			a.logger.Error("Failed to check session revocation", "error", err)
			a.unauthorized(c, "Session could not be verified")
			return
		}
		if revoked {
			a.unauthorized(c, "Session has ended")
			return
		}

		c.Set(ContextKeyAzureID, claims.ObjectID)
		c.Set(contextKeyToken, token)
		c.Set(contextKeyTokenExpiry, claims.ExpiresAt.Time)
		c.Next()
	}
}

// RequireAdmin admits identities holding Admin but not Student. Roles come
// from the directory on every request.
func (a *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		azureID := c.GetString(ContextKeyAzureID)
		if azureID == "" {
			a.unauthorized(c, "Authentication required")
			return
		}

		roles, _, err := a.access.CurrentRoles(c.Request.Context(), azureID)
		if err != nil {
			if repositories.IsDirectoryError(err) {
				a.logger.Error("Failed to resolve roles, ending session", "error", err, "azure_id", azureID)
				a.InvalidateSession(c)
				c.Header("Location", LogoutPath)
				a.unauthorized(c, "Please sign in again")
				return
			}
			a.logger.Error("Failed to resolve roles", "error", err, "azure_id", azureID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "internal_error",
				Message:   "An unexpected error occurred",
				Timestamp: time.Now().UTC(),
				Path:      c.Request.URL.Path,
			})
			return
		}

		if models.DecideLanding(roles, false) != models.LandingAdmin {
			a.logger.Warn("Admin route refused", "azure_id", azureID, "roles", roles.Roles())
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error:     "forbidden",
				Message:   "Admin role required",
				Timestamp: time.Now().UTC(),
				Path:      c.Request.URL.Path,
			})
			return
		}

		c.Next()
	}
}

// Logout revokes the presented token for the rest of its lifetime and clears
// the session cookie. Invalid or missing tokens still get a cleared cookie.
func (a *AuthMiddleware) Logout(c *gin.Context) {
	if token, err := a.tokenFromRequest(c); err == nil {
		if claims, err := a.parse(c.Request.Context(), token); err == nil {
			a.revoke(c.Request.Context(), token, claims.ExpiresAt.Time)
		}
	}
	a.clearCookie(c)

	c.JSON(http.StatusOK, models.SuccessResponse{
		Message:   "Signed out",
		Timestamp: time.Now().UTC(),
	})
}

// InvalidateSession revokes the token of the current request
func (a *AuthMiddleware) InvalidateSession(c *gin.Context) {
	token := c.GetString(contextKeyToken)
	if token != "" {
		expiresAt, _ := c.Get(contextKeyTokenExpiry)
		if exp, ok := expiresAt.(time.Time); ok {
			a.revoke(c.Request.Context(), token, exp)
		}
	}
	a.clearCookie(c)
}

func (a *AuthMiddleware) revoke(ctx context.Context, token string, expiresAt time.Time) {
	if err := a.revocations.Revoke(ctx, token, expiresAt.Sub(a.now())); err != nil {
		a.logger.Error("Failed to revoke session", "error", err)
	}
}

func (a *AuthMiddleware) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(a.config.CookieName, "", -1, "/", "", a.config.SecureCookie, true)
}

// tokenFromRequest prefers the Authorization header over the session cookie
func (a *AuthMiddleware) tokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errNoToken
		}
		return strings.TrimSpace(parts[1]), nil
	}

	cookie, err := c.Cookie(a.config.CookieName)
	if err != nil || cookie == "" {
		return "", errNoToken
	}
	return cookie, nil
}

func (a *AuthMiddleware) parse(ctx context.Context, token string) (*sessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(a.config.Leeway),
		jwt.WithTimeFunc(a.now),
	}
	if a.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.Issuer))
	}
	if a.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(a.config.Audience))
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, a.jwks.KeyfuncCtx(ctx), opts...)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	if claims.ObjectID == "" {
		return nil, errors.New("token has no oid claim")
	}
	return claims, nil
}

func (a *AuthMiddleware) unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Error:     "unauthorized",
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

// AzureIDFromContext returns the caller's identity id set by Authenticate
func AzureIDFromContext(c *gin.Context) (string, bool) {
	id := c.GetString(ContextKeyAzureID)
	return id, id != ""
}
