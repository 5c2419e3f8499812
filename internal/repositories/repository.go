package repositories

import "context"

// Repository aggregates the repositories of the service
type Repository interface {
	User() UserRepository
	Chapter() ChapterRepository
	Student() StudentRepository
	Session() SessionRepository

	// Directory is the external identity store. It takes no part in
	// transactions.
	Directory() DirectoryRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager manages the repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
