package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/config"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

const (
	viewKeyPrefix = "dashboard:view"
	scanBatchSize = 100
)

// ViewCache stores computed dashboard payloads keyed by view state. Entries
// are invalidated wholesale on every snapshot refresh.
type ViewCache interface {
	GetView(ctx context.Context, st domain.ViewState) (*domain.DashboardView, bool, error)
	SetView(ctx context.Context, st domain.ViewState, view *domain.DashboardView) error
	InvalidateAll(ctx context.Context) error
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopViewCache struct{}

func NewViewCache(cfg config.CacheConfig) (ViewCache, error) {
	if !cfg.Enabled {
		return &noopViewCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisViewCache{client: client, ttl: ttl}, nil
}

func NewNoopViewCache() ViewCache {
	return &noopViewCache{}
}

func (c *redisViewCache) GetView(ctx context.Context, st domain.ViewState) (*domain.DashboardView, bool, error) {
	payload, err := c.client.Get(ctx, buildViewKey(st)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var view domain.DashboardView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, false, fmt.Errorf("decode dashboard view cache: %w", err)
	}
	return &view, true, nil
}

func (c *redisViewCache) SetView(ctx context.Context, st domain.ViewState, view *domain.DashboardView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode dashboard view cache: %w", err)
	}

	if err := c.client.Set(ctx, buildViewKey(st), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisViewCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, viewKeyPrefix, scanBatchSize)
}

func (n *noopViewCache) GetView(ctx context.Context, st domain.ViewState) (*domain.DashboardView, bool, error) {
	return nil, false, nil
}

func (n *noopViewCache) SetView(ctx context.Context, st domain.ViewState, view *domain.DashboardView) error {
	return nil
}

func (n *noopViewCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildViewKey hashes the canonical JSON of the view state. Every field
// that changes the payload participates through the struct's json tags.
func buildViewKey(st domain.ViewState) string {
	raw, err := json.Marshal(st)
	if err != nil {
		return viewKeyPrefix + ":default"
	}
	hash := sha1.Sum(raw)
	return fmt.Sprintf("%s:%s", viewKeyPrefix, hex.EncodeToString(hash[:]))
}
