package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cfb_stats/rankings/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisCache stores the latest computed rankings for fast read access by
// display tooling and dashboards. The engine itself never reads from it.
type RedisCache struct {
	client *redis.Client
}

// Config holds Redis configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RankingsSnapshot is the cached payload for one (season, week).
type RankingsSnapshot struct {
	Season     int                       `json:"season"`
	Week       int                       `json:"week"`
	ComputedAt time.Time                 `json:"computed_at"`
	Rows       []*models.RollingTeamStat `json:"rows"`
}

// NewRedisCache creates a new Redis cache connection
func NewRedisCache(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close closes the Redis connection
func (rc *RedisCache) Close() error {
	return rc.client.Close()
}

// Health pings Redis to verify the connection
func (rc *RedisCache) Health(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func snapshotKey(season, week int) string {
	return fmt.Sprintf("rankings:%d:%d", season, week)
}

const latestKey = "rankings:latest"

// SetRankingsSnapshot stores one week's rankings and marks it as latest.
func (rc *RedisCache) SetRankingsSnapshot(ctx context.Context, snap *RankingsSnapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal rankings snapshot: %w", err)
	}

	key := snapshotKey(snap.Season, snap.Week)
	if err := rc.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rankings snapshot: %w", err)
	}
	if err := rc.client.Set(ctx, latestKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache latest rankings: %w", err)
	}

	log.Debug().
		Int("season", snap.Season).
		Int("week", snap.Week).
		Int("rows", len(snap.Rows)).
		Msg("Rankings snapshot cached")

	return nil
}

// GetRankingsSnapshot retrieves one week's cached rankings.
// Returns (nil, nil) on a cache miss.
func (rc *RedisCache) GetRankingsSnapshot(ctx context.Context, season, week int) (*RankingsSnapshot, error) {
	return rc.getSnapshot(ctx, snapshotKey(season, week))
}

// GetLatestRankings retrieves the most recently cached week.
// Returns (nil, nil) on a cache miss.
func (rc *RedisCache) GetLatestRankings(ctx context.Context) (*RankingsSnapshot, error) {
	return rc.getSnapshot(ctx, latestKey)
}

func (rc *RedisCache) getSnapshot(ctx context.Context, key string) (*RankingsSnapshot, error) {
	payload, err := rc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rankings snapshot: %w", err)
	}

	var snap RankingsSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rankings snapshot: %w", err)
	}

	return &snap, nil
}
