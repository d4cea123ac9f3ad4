package ratelimit

import (
	"context"
	"fmt"
	"time"

	apperrors "codeberg.org/algopatterns/catalog/internal/errors"
	"codeberg.org/algopatterns/catalog/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const keyPrefix = "catalog:ratelimit"

// per-client request limiter for the ask endpoint
type Limiter struct {
	limiter *limiter.Limiter
	redis   *redis.Client
}

// builds a limiter from a formatted rate ("60-M").
// counters live in redis when redisURL is set so replicas share them, in memory otherwise
func New(ctx context.Context, rate, redisURL string) (*Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", rate, err)
	}

	if redisURL == "" {
		return &Limiter{limiter: limiter.New(memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          keyPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), parsed)}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // connection never came up
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix:   keyPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		_ = client.Close() //nolint:errcheck // store never came up
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}

	return &Limiter{limiter: limiter.New(store, parsed), redis: client}, nil
}

// gin middleware that answers 429 once a client exceeds its rate
func (l *Limiter) Middleware() gin.HandlerFunc {
	return mgin.NewMiddleware(l.limiter,
		mgin.WithKeyGetter(clientKey),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			logger.FromContext(c.Request.Context()).Infow("rate limit reached",
				"key", clientKey(c),
				"path", c.FullPath(),
			)
			apperrors.TooManyRequests(c, "rate limit exceeded, try again later")
		}),
		// a broken counter store should not take the endpoint down
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.FromContext(c.Request.Context()).Warnw("rate limit store failed", "error", err)
			c.Next()
		}),
	)
}

func (l *Limiter) Close() error {
	if l.redis == nil {
		return nil
	}

	return l.redis.Close()
}

// authenticated callers are limited per client id, everyone else per ip
func clientKey(c *gin.Context) string {
	if id := c.GetString("client_id"); id != "" {
		return "client:" + id
	}

	return "ip:" + c.ClientIP()
}
