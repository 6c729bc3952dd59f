package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"storefront/internal/catalog"
	"storefront/internal/domain"
)

const catalogKey = "catalog:products"

// CachedSource fronts a catalog source with a short-lived Redis copy so that
// several storefront instances polling together hit the database once.
type CachedSource struct {
	source catalog.Source
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

func NewCachedSource(source catalog.Source, client *redis.Client, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, client: client, ttl: ttl}
}

func (c *CachedSource) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		var products []domain.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		log.Printf("catalog cache: dropping unreadable entry")
	} else if !errors.Is(err, redis.Nil) {
		log.Printf("catalog cache: redis get failed: %v", err)
	}

	v, err, _ := c.group.Do(catalogKey, func() (any, error) {
		products, err := c.source.LoadProducts(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(products); err == nil {
			if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
				log.Printf("catalog cache: redis set failed: %v", err)
			}
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (c *CachedSource) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
