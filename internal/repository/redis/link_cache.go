package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/HrustakV/kratky-link/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LinkCache is a cache-aside layer over resolved links, keyed by the code
// the visitor used. Activation and expiry gating still run on every hit, so
// a stale entry can never produce a live redirect.
type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

func (r *LinkCache) GetLink(ctx context.Context, code string) (*domain.Link, error) {
	data, err := r.client.Get(ctx, key(code)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var link domain.Link
	if err := json.Unmarshal([]byte(data), &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (r *LinkCache) SetLink(ctx context.Context, code string, link *domain.Link, ttl time.Duration) error {
	data, err := json.Marshal(link)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, key(code), data, ttl).Err()
}

func key(code string) string {
	return fmt.Sprintf("link:%s", code)
}
