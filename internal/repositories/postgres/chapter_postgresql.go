package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/achievers-club/mentoring-service/internal/cache"
	"github.com/achievers-club/mentoring-service/internal/models"
	"github.com/achievers-club/mentoring-service/internal/repositories"
)

// ChapterPostgreSQL caches chapter reads in redis; writes invalidate them
type ChapterPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewChapterPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.ChapterRepository {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &ChapterPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *ChapterPostgreSQL) List(ctx context.Context) ([]*models.Chapter, error) {
	var chapters []*models.Chapter
	err := r.cacheManager.Chapter.CacheOrExecute(ctx, cache.ChapterListKey, &chapters, cache.ChapterCacheConfig.TTL, func() (interface{}, error) {
		var dbChapters []*models.Chapter
		if err := r.db.WithContext(ctx).Order("name ASC").Find(&dbChapters).Error; err != nil {
			return nil, handleDBError(err, "list chapters")
		}
		return dbChapters, nil
	})
	if err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *ChapterPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	err := r.cacheManager.Chapter.CacheOrExecute(ctx, cache.ChapterKey(id), &chapter, cache.ChapterCacheConfig.TTL, func() (interface{}, error) {
		var dbChapter models.Chapter
		if err := r.db.WithContext(ctx).First(&dbChapter, id).Error; err != nil {
			return nil, handleDBError(err, "get chapter by id")
		}
		return &dbChapter, nil
	})
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (r *ChapterPostgreSQL) Create(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return handleDBError(err, "create chapter")
	}
	cache.InvalidateChapterCache(ctx, r.cacheManager, 0)
	return nil
}

func (r *ChapterPostgreSQL) Update(ctx context.Context, chapter *models.Chapter) error {
	if err := r.db.WithContext(ctx).Save(chapter).Error; err != nil {
		return handleDBError(err, "update chapter")
	}
	cache.InvalidateChapterCache(ctx, r.cacheManager, chapter.ID)
	return nil
}

func (r *ChapterPostgreSQL) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, handleDBError(err, "check chapter name")
	}
	return count > 0, nil
}
