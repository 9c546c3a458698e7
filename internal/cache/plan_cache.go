package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// The public catalog changes only when the admin edits a plan, so a short TTL
// plus explicit invalidation on every mutation keeps it fresh.
const CatalogCacheTTL = 5 * time.Minute

const catalogKey = "plans:catalog"

type PlanCache struct {
	client *redis.Client
}

func NewPlanCache(client *redis.Client) *PlanCache {
	return &PlanCache{client: client}
}

// GetCatalog returns the cached plan list, or nil on a miss
func (c *PlanCache) GetCatalog(ctx context.Context) ([]byte, error) {
	val, err := c.client.Get(ctx, catalogKey).Result()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// SetCatalog stores the plan list with TTL
func (c *PlanCache) SetCatalog(ctx context.Context, plans interface{}) error {
	jsonData, err := json.Marshal(plans)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, catalogKey, jsonData, CatalogCacheTTL).Err()
}

// InvalidateCatalog drops the cached list after a mutation
func (c *PlanCache) InvalidateCatalog(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}
