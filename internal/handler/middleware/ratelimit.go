package middleware

import (
	"net/http"
	"sync"
	"time"

	"gotrip-checkout/internal/handler/httperr"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles an endpoint per client IP with a token bucket.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		now:      time.Now,
	}
}

// NewPromotionRateLimiter guards promotion lookups, which hit the inventory service.
func NewPromotionRateLimiter(cfg config.Config) *RateLimiter {
	return NewRateLimiter(cfg.RateLimit.PromotionPerMinute, cfg.RateLimit.PromotionBurst)
}

func (r *RateLimiter) allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	v, ok := r.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[key] = v
	}
	v.lastSeen = now

	if now.Sub(r.lastSweep) > limiterIdleTTL {
		for k, other := range r.visitors {
			if now.Sub(other.lastSeen) > limiterIdleTTL {
				delete(r.visitors, k)
			}
		}
		r.lastSweep = now
	}
	return v.limiter.AllowN(now, 1)
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.allow(c.ClientIP()) {
			httperr.AbortWithError(c, http.StatusTooManyRequests, errRateLimited, "Bạn thao tác quá nhanh, vui lòng thử lại sau.", nil)
			return
		}
		c.Next()
	}
}

var errRateLimited = errs.New("rate limit exceeded")
