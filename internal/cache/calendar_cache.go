package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/calendar"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/config"
	"github.com/bonhoeffermachines/clients-dashboard/backend-go/internal/domain"
)

const calendarKeyPrefix = "calendar:view"

// CalendarCache stores computed calendar payloads per query. Unlike the
// dashboard view cache it supports targeted invalidation, the calendar is
// heavier to rebuild and mostly re-requested with the same query.
type CalendarCache interface {
	Get(ctx context.Context, q calendar.Query) (*domain.CalendarView, bool, error)
	Set(ctx context.Context, q calendar.Query, view *domain.CalendarView) error
	Invalidate(ctx context.Context, q calendar.Query) error
	InvalidateAll(ctx context.Context) error
}

type redisCalendarCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopCalendarCache struct{}

func NewCalendarCache(cfg config.CacheConfig) (CalendarCache, error) {
	if !cfg.Enabled {
		return &noopCalendarCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisCalendarCache{client: client, ttl: ttl}, nil
}

func NewNoopCalendarCache() CalendarCache {
	return &noopCalendarCache{}
}

func (c *redisCalendarCache) Get(ctx context.Context, q calendar.Query) (*domain.CalendarView, bool, error) {
	payload, err := c.client.Get(ctx, buildCalendarKey(q)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var view domain.CalendarView
	if err := json.Unmarshal(payload, &view); err != nil {
		return nil, false, fmt.Errorf("decode calendar view cache: %w", err)
	}
	return &view, true, nil
}

func (c *redisCalendarCache) Set(ctx context.Context, q calendar.Query, view *domain.CalendarView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode calendar view cache: %w", err)
	}

	if err := c.client.Set(ctx, buildCalendarKey(q), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisCalendarCache) Invalidate(ctx context.Context, q calendar.Query) error {
	if err := c.client.Del(ctx, buildCalendarKey(q)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (c *redisCalendarCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, calendarKeyPrefix, scanBatchSize)
}

func (n *noopCalendarCache) Get(ctx context.Context, q calendar.Query) (*domain.CalendarView, bool, error) {
	return nil, false, nil
}

func (n *noopCalendarCache) Set(ctx context.Context, q calendar.Query, view *domain.CalendarView) error {
	return nil
}

func (n *noopCalendarCache) Invalidate(ctx context.Context, q calendar.Query) error {
	return nil
}

func (n *noopCalendarCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func buildCalendarKey(q calendar.Query) string {
	parts := []string{
		"user=" + q.User,
		"admin=" + strconv.FormatBool(q.AdminView),
		"year=" + q.Year,
		"country=" + q.Country,
		"client=" + q.Client,
		"month=" + strconv.Itoa(q.Month),
		"start=" + q.StartDate,
		"end=" + q.EndDate,
	}
	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s", calendarKeyPrefix, hex.EncodeToString(hash[:]))
}
