package tenants

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/repository"
)

// Resolver answers per-tenant retention questions, with a read-through redis
// cache in front of the tenant table. Cache failures are fail-open: the
// table is authoritative.
type Resolver struct {
	store       repository.TenantStore
	cache       *redis.Client
	cacheTTL    time.Duration
	defaultDays int
	log         *zap.Logger
}

// NewResolver creates a retention resolver. cache may be nil, in which case
// every lookup hits the store.
func NewResolver(store repository.TenantStore, cache *redis.Client, cacheTTL time.Duration, defaultDays int, log *zap.Logger) *Resolver {
	return &Resolver{
		store:       store,
		cache:       cache,
		cacheTTL:    cacheTTL,
		defaultDays: defaultDays,
		log:         log,
	}
}

// RetentionCutoff returns the epoch-ms instant before which this tenant's
// messages are treated as gone. Zero means no cutoff.
func (r *Resolver) RetentionCutoff(ctx context.Context, tenantID string) (int64, error) {
	days, err := r.retentionDays(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	if days <= 0 {
		return 0, nil
	}

	return time.Now().AddDate(0, 0, -days).UnixMilli(), nil
}

func (r *Resolver) retentionDays(ctx context.Context, tenantID string) (int, error) {
	key := cacheKey(tenantID)

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key).Result()
		if err == nil {
			if days, convErr := strconv.Atoi(cached); convErr == nil {
				return days, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			r.log.Warn("Retention cache read failed; falling through to store",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
		}
	}

	days := r.defaultDays
	tenant, err := r.store.Get(ctx, tenantID)
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		// Unknown tenants get the default retention.
	case err != nil:
		return 0, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	case tenant.RetentionDays > 0:
		days = tenant.RetentionDays
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, strconv.Itoa(days), r.cacheTTL).Err(); err != nil {
			r.log.Warn("Retention cache write failed",
				zap.String("tenant_id", tenantID),
				zap.Error(err))
		}
	}

	return days, nil
}

func cacheKey(tenantID string) string {
	return "tenant:retention:" + tenantID
}
