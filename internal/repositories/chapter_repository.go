package repositories

import (
	"context"

	"github.com/achievers-club/mentoring-service/internal/models"
)

type ChapterRepository interface {
	List(ctx context.Context) ([]*models.Chapter, error)
	GetByID(ctx context.Context, id uint) (*models.Chapter, error)
	Create(ctx context.Context, chapter *models.Chapter) error
	Update(ctx context.Context, chapter *models.Chapter) error
	ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error)
}
