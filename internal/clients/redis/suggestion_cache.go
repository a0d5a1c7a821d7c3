// Package redis holds thin adapters over go-redis used at the service
// edge. The engine itself never touches redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/astrovows/starlight-backend/internal/logger"
	"github.com/astrovows/starlight-backend/internal/services"
	"github.com/astrovows/starlight-backend/internal/utils"
)

// SuggestionCache memoizes resolved suggestion batches per emotion/count.
// It is best-effort: a miss or a redis error just means re-resolving.
type SuggestionCache interface {
	Get(ctx context.Context, emotionKey string, count int) ([]services.EmotionSuggestion, bool)
	Set(ctx context.Context, emotionKey string, count int, suggestions []services.EmotionSuggestion)
	Close() error
}

type suggestionCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewSuggestionCache(log *logger.Logger) (SuggestionCache, error) {
	addr := strings.TrimSpace(utils.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSec := utils.GetEnvAsInt("SUGGESTION_CACHE_TTL_SECONDS", 300, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &suggestionCache{
		log: log.With("service", "SuggestionCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func cacheKey(emotionKey string, count int) string {
	return fmt.Sprintf("suggest:%s:%d", strings.ToLower(strings.TrimSpace(emotionKey)), count)
}

func (c *suggestionCache) Get(ctx context.Context, emotionKey string, count int) ([]services.EmotionSuggestion, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(emotionKey, count)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Debug("suggestion cache read failed", "error", err)
		}
		return nil, false
	}
	var out []services.EmotionSuggestion
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Debug("suggestion cache entry corrupt, ignoring", "error", err)
		return nil, false
	}
	return out, true
}

func (c *suggestionCache) Set(ctx context.Context, emotionKey string, count int, suggestions []services.EmotionSuggestion) {
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(emotionKey, count), raw, c.ttl).Err(); err != nil {
		c.log.Debug("suggestion cache write failed", "error", err)
	}
}

func (c *suggestionCache) Close() error {
	return c.rdb.Close()
}
