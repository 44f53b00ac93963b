package services

import (
	"context"
	"errors"
	"time"

	"autobooks/src/models"
	"autobooks/src/utils"
	redis_utils "autobooks/src/utils/redis"
)

// CategoryTreeCache stores resolved category trees per workspace kind.
type CategoryTreeCache interface {
	Get(ctx context.Context, kind models.WorkspaceType) ([]models.CategoryNode, bool, error)
	Set(ctx context.Context, kind models.WorkspaceType, nodes []models.CategoryNode) error
}

type memoryTreeCache struct {
	cache *utils.Cache[models.WorkspaceType, []models.CategoryNode]
	ttl   time.Duration
}

func NewMemoryTreeCache(ttl time.Duration) CategoryTreeCache {
	return &memoryTreeCache{
		cache: utils.NewCache[models.WorkspaceType, []models.CategoryNode](),
		ttl:   ttl,
	}
}

func (c *memoryTreeCache) Get(_ context.Context, kind models.WorkspaceType) ([]models.CategoryNode, bool, error) {
	nodes, found := c.cache.Get(kind)
	return nodes, found, nil
}

func (c *memoryTreeCache) Set(_ context.Context, kind models.WorkspaceType, nodes []models.CategoryNode) error {
	c.cache.Set(kind, nodes, c.ttl)
	return nil
}

type redisTreeCache struct {
	redis *redis_utils.RedisHandler
	ttl   time.Duration
}

func NewRedisTreeCache(redis *redis_utils.RedisHandler, ttl time.Duration) CategoryTreeCache {
	return &redisTreeCache{redis: redis, ttl: ttl}
}

func categoryTreeKey(kind models.WorkspaceType) string {
	return "category-tree:" + string(kind)
}

func (c *redisTreeCache) Get(ctx context.Context, kind models.WorkspaceType) ([]models.CategoryNode, bool, error) {
	var nodes []models.CategoryNode
	err := c.redis.Get(ctx, categoryTreeKey(kind), &nodes)
	if errors.Is(err, redis_utils.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return nodes, true, nil
}

func (c *redisTreeCache) Set(ctx context.Context, kind models.WorkspaceType, nodes []models.CategoryNode) error {
	return c.redis.Set(ctx, categoryTreeKey(kind), nodes, c.ttl)
}
