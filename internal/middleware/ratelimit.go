package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/canvasprint/canvasprint/internal/pkg/errors"
)

// Limiter counts calls per key in fixed windows
type Limiter interface {
	RateLimit(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimitConfig configures the rate limiter
type RateLimitConfig struct {
	// Max requests per window
	Max int
	// Window duration
	Window time.Duration
	// KeyGenerator picks the bucket of a request
	KeyGenerator func(*fiber.Ctx) string
	// Skip function
	Skip func(*fiber.Ctx) bool
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Max:    120,
		Window: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Skip: HealthSkipper,
	}
}

// RateLimitMiddleware limits requests per client using Redis counters
type RateLimitMiddleware struct {
	limiter Limiter
	config  RateLimitConfig
	logger  *zap.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter, logger *zap.Logger, config ...RateLimitConfig) *RateLimitMiddleware {
	cfg := DefaultRateLimitConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return &RateLimitMiddleware{
		limiter: limiter,
		config:  cfg,
		logger:  logger,
	}
}

// Handler returns the rate limit handler. Requests are let through when
// Redis is unavailable.
func (m *RateLimitMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.config.Skip != nil && m.config.Skip(c) {
			return c.Next()
		}

		key := "ratelimit:" + m.config.KeyGenerator(c)
		allowed, remaining, err := m.limiter.RateLimit(c.UserContext(), key, int64(m.config.Max), m.config.Window)
		if err != nil {
			m.logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(m.config.Max))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(m.config.Window.Seconds())))
			return apperrors.RateLimited()
		}

		return c.Next()
	}
}
