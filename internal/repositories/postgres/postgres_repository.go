package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/achievers-club/mentoring-service/internal/cache"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

// PostgreSQLRepository implements repositories.Repository
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	user      repositories.UserRepository
	chapter   repositories.ChapterRepository
	student   repositories.StudentRepository
	session   repositories.SessionRepository
	directory repositories.DirectoryRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	Directory   repositories.DirectoryRepository
}

func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		redisClient:  config.RedisClient,
		cacheManager: cache.NewCacheManager(config.RedisClient),
		directory:    config.Directory,
	}
	repo.bind(config.DB)
	return repo
}

func (r *PostgreSQLRepository) bind(db *gorm.DB) {
	r.db = db
	r.user = NewUserPostgreSQL(db)
	r.chapter = NewChapterPostgreSQL(db, r.cacheManager)
	r.student = NewStudentPostgreSQL(db)
	r.session = NewSessionPostgreSQL(db)
}

func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

func (r *PostgreSQLRepository) Chapter() repositories.ChapterRepository {
	return r.chapter
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.student
}

func (r *PostgreSQLRepository) Session() repositories.SessionRepository {
	return r.session
}

func (r *PostgreSQLRepository) Directory() repositories.DirectoryRepository {
	return r.directory
}

// WithTransaction runs fn against repositories bound to one transaction.
// The directory is shared; calls to it are not rolled back.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
			directory:    r.directory,
		}
		txRepo.bind(tx)
		return fn(txRepo)
	})
}

// Ping checks the database and, when configured, redis
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}
	return nil
}

func (r *PostgreSQLRepository) Close() error {
	var errs []error

	if sqlDB, err := r.db.DB(); err != nil {
		errs = append(errs, fmt.Errorf("failed to get database instance: %w", err))
	} else if err := sqlDB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RepositoryManager implements repositories.RepositoryManager
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{config: config}
}

// Initialize verifies the connections and builds the repositories
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	if rm.config.Directory == nil {
		return fmt.Errorf("directory client is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if rm.config.RedisClient != nil {
		if err := rm.config.RedisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)
	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
