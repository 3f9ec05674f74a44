package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"foodorder/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	menuAllKey        = "menu:all"
	menuItemKeyPrefix = "menu:item:"
	// menuGenKey is bumped by every write. A fill only lands if the
	// generation it read before loading is still current.
	menuGenKey = "menu:gen"
)

var errStaleFill = errors.New("menu changed while loading")

// CachedMenuRepository serves menu reads from Redis and falls through to the
// wrapped repository on a miss. Writes go to the wrapped repository first and
// then invalidate the affected keys. Redis failures are logged and never
// fail the call.
type CachedMenuRepository struct {
	next MenuRepository
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedMenuRepository wraps next with a Redis read-through cache.
func NewCachedMenuRepository(next MenuRepository, rdb *redis.Client, ttl time.Duration) *CachedMenuRepository {
	return &CachedMenuRepository{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
	}
}

func menuItemKey(id uint) string {
	return fmt.Sprintf("%s%d", menuItemKeyPrefix, id)
}

// GetAll returns the full menu.
func (r *CachedMenuRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if r.getCache(ctx, menuAllKey, &items) {
		return items, nil
	}

	gen, genOK := r.generation(ctx)
	items, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if genOK {
		r.setCache(ctx, gen, menuAllKey, items)
	}
	return items, nil
}

// GetByID returns one menu item. Misses are not cached.
func (r *CachedMenuRepository) GetByID(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if r.getCache(ctx, menuItemKey(id), &item) {
		return &item, nil
	}

	gen, genOK := r.generation(ctx)
	found, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if genOK {
		r.setCache(ctx, gen, menuItemKey(id), found)
	}
	return found, nil
}

// Create adds a menu item and drops the cached list.
func (r *CachedMenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	if err := r.next.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, menuAllKey)
	return nil
}

// Update modifies a menu item and drops its cached copies.
func (r *CachedMenuRepository) Update(ctx context.Context, item *models.MenuItem) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, menuAllKey, menuItemKey(item.ID))
	return nil
}

// Delete removes a menu item and drops its cached copies.
func (r *CachedMenuRepository) Delete(ctx context.Context, id uint) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, menuAllKey, menuItemKey(id))
	return nil
}

func (r *CachedMenuRepository) getCache(ctx context.Context, key string, dest any) bool {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("menu cache read failed")
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("menu cache entry is corrupt")
		return false
	}
	return true
}

// generation reads the current write generation. Without it a fill cannot
// be checked, so callers skip caching.
func (r *CachedMenuRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := r.rdb.Get(ctx, menuGenKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		logrus.WithError(err).Warn("menu cache generation read failed")
		return 0, false
	}
	return gen, true
}

// setCache stores value under key unless a write bumped the generation
// after gen was read.
func (r *CachedMenuRepository) setCache(ctx context.Context, gen int64, key string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("menu cache encode failed")
		return
	}

	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, menuGenKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != gen {
			return errStaleFill
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, r.ttl)
			return nil
		})
		return err
	}, menuGenKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		logrus.WithField("key", key).Debug("menu cache fill skipped, menu changed")
	default:
		logrus.WithError(err).WithField("key", key).Warn("menu cache write failed")
	}
}

// invalidate bumps the generation and drops keys in one transaction.
func (r *CachedMenuRepository) invalidate(ctx context.Context, keys ...string) {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, menuGenKey)
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		logrus.WithError(err).WithField("keys", keys).Warn("menu cache invalidation failed")
	}
}
