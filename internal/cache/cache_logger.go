package cache

import (
	"context"
	"log/slog"
)

// SafeInvalidatePattern invalidates a pattern, logging instead of failing
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes keys, logging instead of failing
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateChapterCache drops the chapter list and the given chapter
func InvalidateChapterCache(ctx context.Context, cm *CacheManager, chapterID uint) {
	if chapterID != 0 {
		SafeDelete(ctx, cm.Chapter, ChapterKey(chapterID))
	}
	SafeInvalidatePattern(ctx, cm.Chapter, "list*")
}
