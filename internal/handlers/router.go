package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/achievers-club/mentoring-service/internal/services"
	"github.com/achievers-club/mentoring-service/internal/utils"
)

type HandlerManager struct {
	accessHandler     *AccessHandler
	permissionHandler *PermissionHandler
	userHandler       *UserHandler
	chapterHandler    *ChapterHandler
	studentHandler    *StudentHandler
	sessionHandler    *SessionHandler
	authMiddleware    *AuthMiddleware
	serviceManager    services.ServiceManager
	logger            utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware *AuthMiddleware,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		accessHandler:     NewAccessHandler(serviceManager.Access(), logger, authMiddleware),
		permissionHandler: NewPermissionHandler(serviceManager.Permission(), logger, authMiddleware),
		userHandler:       NewUserHandler(serviceManager.User(), serviceManager.Provisioning(), serviceManager.Student(), logger, authMiddleware),
		chapterHandler:    NewChapterHandler(serviceManager.Chapter(), serviceManager.Session(), logger, authMiddleware),
		studentHandler:    NewStudentHandler(serviceManager.Student(), logger, authMiddleware),
		sessionHandler:    NewSessionHandler(serviceManager.Session(), logger, authMiddleware),
		authMiddleware:    authMiddleware,
		serviceManager:    serviceManager,
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.HealthCheck)

	router.GET(LogoutPath, hm.authMiddleware.Logout)
	router.POST(LogoutPath, hm.authMiddleware.Logout)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.Authenticate())
	{
		// The signed-in identity, any role
		me := v1.Group("/me")
		{
			me.GET("", hm.accessHandler.GetMe)
			me.GET("/landing", hm.accessHandler.GetLanding)
			me.POST("/volunteer-agreement", hm.accessHandler.SignVolunteerAgreement)
		}

		admin := v1.Group("")
		admin.Use(hm.authMiddleware.RequireAdmin())

		permissions := admin.Group("/permissions")
		{
			permissions.GET("/users", hm.permissionHandler.ListDirectoryUsers)
			permissions.GET("/users/:azure_id", hm.permissionHandler.GetDirectoryUser)
			permissions.POST("/users/:azure_id/roles", hm.permissionHandler.AssignRole)
			permissions.GET("/roles", hm.permissionHandler.ListRoles)
			permissions.DELETE("/assignments/:assignment_id", hm.permissionHandler.RemoveRole)
		}

		users := admin.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.POST("", hm.userHandler.CreateUser)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.userHandler.ArchiveUser)
			users.PUT("/:id/wwc-check", hm.userHandler.UpdateWWCCheck)
			users.PUT("/:id/police-check", hm.userHandler.UpdatePoliceCheck)
			users.POST("/:id/give-access", hm.userHandler.GiveAccess)
			users.GET("/:id/mentees", hm.userHandler.ListMentees)
		}

		chapters := admin.Group("/chapters")
		{
			chapters.GET("", hm.chapterHandler.ListChapters)
			chapters.POST("", hm.chapterHandler.CreateChapter)
			chapters.GET("/:id", hm.chapterHandler.GetChapter)
			chapters.PUT("/:id", hm.chapterHandler.UpdateChapter)
			chapters.GET("/:id/mentors", hm.chapterHandler.ListMentors)
			chapters.GET("/:id/students", hm.chapterHandler.ListStudents)
			chapters.GET("/:id/students/:student_id/mentors", hm.chapterHandler.MentorsForStudent)
			chapters.GET("/:id/session-filters", hm.chapterHandler.SessionFilterOptions)
		}

		students := admin.Group("/students")
		{
			students.GET("", hm.studentHandler.ListStudents)
			students.POST("", hm.studentHandler.CreateStudent)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.PUT("/:id", hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.studentHandler.ArchiveStudent)

			students.POST("/:id/guardians", hm.studentHandler.AddGuardian)
			students.PUT("/:id/guardians/:guardian_id", hm.studentHandler.UpdateGuardian)
			students.DELETE("/:id/guardians/:guardian_id", hm.studentHandler.RemoveGuardian)

			students.POST("/:id/teachers", hm.studentHandler.AddTeacher)
			students.PUT("/:id/teachers/:teacher_id", hm.studentHandler.UpdateTeacher)
			students.DELETE("/:id/teachers/:teacher_id", hm.studentHandler.RemoveTeacher)

			students.POST("/:id/mentors", hm.studentHandler.AssignMentor)
			students.DELETE("/:id/mentors/:user_id", hm.studentHandler.UnassignMentor)
		}

		sessions := admin.Group("/sessions")
		{
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/count", hm.sessionHandler.CountSessions)
			sessions.GET("/export", hm.sessionHandler.ExportSessions)
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.PUT("/:id/assignment", hm.sessionHandler.UpdateAssignment)
			sessions.DELETE("/:id", hm.sessionHandler.RemoveSession)
			sessions.POST("/:id/complete", hm.sessionHandler.CompleteSession)
			sessions.POST("/:id/sign-off", hm.sessionHandler.SignOffSession)
		}
	}
}

// HealthCheck pings the database and, when configured, redis
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		utils.GetLogger(c, hm.logger).Error("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"service":   "mentoring-service",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "mentoring-service",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
