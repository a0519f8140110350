package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache invalidates all course-related caches for a tenant
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, tenantID, courseID string) {
	SafeDelete(ctx, cm.Course, fmt.Sprintf("id:%s:%s", tenantID, courseID))
	SafeInvalidatePattern(ctx, cm.Course, fmt.Sprintf("list:%s:*", tenantID))
	SafeInvalidatePattern(ctx, cm.Dashboard, fmt.Sprintf("%s:*", tenantID))
}

// InvalidateSubscriptionCache invalidates the cached subscription for a tenant
func InvalidateSubscriptionCache(ctx context.Context, cm *CacheManager, tenantID string) {
	SafeDelete(ctx, cm.Subscription, fmt.Sprintf("tenant:%s", tenantID))
}
