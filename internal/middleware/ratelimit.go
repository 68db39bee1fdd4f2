package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// Redisの固定窓カウンタ（INCR + EXPIRE）。
// Redisが落ちているときは制限せずに通す。
func RateLimit(rdb redis.Cmdable, cfg RateLimitConfig, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := c.RealIP()
			if userID, ok := c.Get(CtxUserIDKey).(string); ok {
				clientID = "user:" + userID
			}
			key := fmt.Sprintf("%s:%s", cfg.KeyPrefix, clientID)

			ctx := c.Request().Context()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Error("rate limit incr failed", zap.String("key", key), zap.Error(err))
				return next(c)
			}

			//窓の最初のリクエストで期限を付ける
			if count == 1 {
				if err := rdb.Expire(ctx, key, cfg.Window).Err(); err != nil {
					log.Error("rate limit expire failed", zap.String("key", key), zap.Error(err))
				}
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.RequestsPerWindow))

			if count > int64(cfg.RequestsPerWindow) {
				ttl, err := rdb.TTL(ctx, key).Result()
				if err != nil || ttl < 0 {
					ttl = cfg.Window
				}

				log.Warn("rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int64("count", count),
					zap.Int("limit", cfg.RequestsPerWindow),
				)

				h.Set("X-RateLimit-Remaining", "0")
				h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
				h.Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}

			h.Set("X-RateLimit-Remaining", strconv.FormatInt(int64(cfg.RequestsPerWindow)-count, 10))
			return next(c)
		}
	}
}
