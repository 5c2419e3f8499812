package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/achievers-club/mentoring-service/internal/events"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
	"github.com/achievers-club/mentoring-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	RoleIDs models.RoleIDs
	// WebAppURL is where invited users are sent after redeeming an invitation
	WebAppURL            string
	ProvisioningClaimTTL time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	provisioningService ProvisioningService
	accessService       AccessService
	permissionService   PermissionService
	userService         UserService
	chapterService      ChapterService
	studentService      StudentService
	sessionService      SessionService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.repo == nil {
		return fmt.Errorf("failed to initialize services: repository is required")
	}
	if sm.config.RoleIDs.Mentor == "" {
		return fmt.Errorf("failed to initialize services: mentor role id is required")
	}

	sm.initializeServices()

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices() {
	sm.provisioningService = NewProvisioningService(sm.repo, sm.publisher, sm.logger, ProvisioningConfig{
		RoleIDs:     sm.config.RoleIDs,
		RedirectURL: sm.config.WebAppURL,
		ClaimTTL:    sm.config.ProvisioningClaimTTL,
	})
	sm.logger.Info("Provisioning service initialized")

	sm.accessService = NewAccessService(sm.repo, sm.logger, sm.config.RoleIDs)
	sm.logger.Info("Access service initialized")

	sm.permissionService = NewPermissionService(sm.repo, sm.publisher, sm.logger, sm.validator, sm.config.RoleIDs)
	sm.logger.Info("Permission service initialized")

	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("User service initialized")

	sm.chapterService = NewChapterService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("Chapter service initialized")

	sm.studentService = NewStudentService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("Student service initialized")

	sm.sessionService = NewSessionService(sm.repo, sm.logger, sm.validator)
	sm.logger.Info("Session service initialized")
}

// Service getters

func (sm *serviceManager) Provisioning() ProvisioningService {
	sm.mustBeInitialized()
	return sm.provisioningService
}

func (sm *serviceManager) Access() AccessService {
	sm.mustBeInitialized()
	return sm.accessService
}

func (sm *serviceManager) Permission() PermissionService {
	sm.mustBeInitialized()
	return sm.permissionService
}

func (sm *serviceManager) User() UserService {
	sm.mustBeInitialized()
	return sm.userService
}

func (sm *serviceManager) Chapter() ChapterService {
	sm.mustBeInitialized()
	return sm.chapterService
}

func (sm *serviceManager) Student() StudentService {
	sm.mustBeInitialized()
	return sm.studentService
}

func (sm *serviceManager) Session() SessionService {
	sm.mustBeInitialized()
	return sm.sessionService
}

func (sm *serviceManager) mustBeInitialized() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

// Shutdown flushes the event publisher. The repository is owned by its
// manager and closed there.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
