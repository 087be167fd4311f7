package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mohamedrafeek-mr/FoodHub/internal/domain"
	"github.com/mohamedrafeek-mr/FoodHub/internal/repository"
)

const (
	itemKeyPrefix = "menu:item:"
	listKey       = "menu:available"
)

// MenuRepository is a read-through cache over another MenuRepository. Cache
// failures degrade to the source; they never fail the request.
type MenuRepository struct {
	source repository.MenuRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewMenuRepository wraps a source menu repository with a Redis cache.
func NewMenuRepository(source repository.MenuRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *MenuRepository {
	return &MenuRepository{
		source: source,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetByID returns a menu item, consulting the cache first.
func (r *MenuRepository) GetByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	key := itemKeyPrefix + id

	data, err := r.client.Get(ctx, key).Bytes()
	if err == nil {
		var item domain.MenuItem
		if err := json.Unmarshal(data, &item); err == nil {
			return &item, nil
		}
		// A corrupt entry falls through to the source and gets rewritten.
	} else if err != redis.Nil {
		r.logger.WarnContext(ctx, "menu cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}

	item, err := r.source.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, item)
	return item, nil
}

// ListAvailable returns all available menu items, consulting the cache first.
func (r *MenuRepository) ListAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	data, err := r.client.Get(ctx, listKey).Bytes()
	if err == nil {
		var items []domain.MenuItem
		if err := json.Unmarshal(data, &items); err == nil {
			return items, nil
		}
	} else if err != redis.Nil {
		r.logger.WarnContext(ctx, "menu cache read failed",
			slog.String("key", listKey),
			slog.String("error", err.Error()),
		)
	}

	items, err := r.source.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	r.store(ctx, listKey, items)
	return items, nil
}

func (r *MenuRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.WarnContext(ctx, "menu cache marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "menu cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops the cached entries for an item and the availability list.
func (r *MenuRepository) Invalidate(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, itemKeyPrefix+id, listKey).Err(); err != nil {
		return fmt.Errorf("redis del menu cache: %w", err)
	}
	return nil
}
