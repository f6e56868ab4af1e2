package server

import (
	"context"

	"github.com/gogotex/issuetracker/internal/config"
	"github.com/gogotex/issuetracker/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for the Redis rate limiter, or nil when the
// limiter does not use Redis or Redis does not answer a ping.
func ConnectRedis(ctx context.Context, rc config.RedisConfig, rl config.RateLimitConfig) *redis.Client {
	if !rl.Enabled || !rl.UseRedis {
		return nil
	}
	addr := rc.Addr()
	if addr == "" {
		logger.Warnf("RATE_LIMIT_USE_REDIS set without REDIS_HOST; rate limiter uses memory")
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: rc.Password, DB: rc.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warnf("redis ping failed (%v); rate limiter falls back to memory", err)
		_ = rdb.Close()
		return nil
	}
	logger.Infof("redis connected at %s", addr)
	return rdb
}
