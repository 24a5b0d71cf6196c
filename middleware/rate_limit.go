package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/mizutamari/gallery/config"
	"github.com/mizutamari/gallery/utils"
)

// visitor is one IP's token bucket for the login gate.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// visitorTTL controls how long an idle IP keeps its bucket.
const visitorTTL = 5 * time.Minute

var (
	visitors   = map[string]*visitor{}
	visitorsMu sync.Mutex
)

// RateLimitMiddleware throttles a route group per client IP. The gallery has a
// single shared admin password, so the auth group carries this to slow down
// guessing even when the Redis-backed failure counters are unavailable.
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := max(cfg.RateLimitPerMinute, 1)
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := max(perMinute/2, 1)

	return func(ctx *gin.Context) {
		if !visitorLimiter(ctx.ClientIP(), limit, burst).Allow() {
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func visitorLimiter(ip string, limit rate.Limit, burst int) *rate.Limiter {
	visitorsMu.Lock()
	defer visitorsMu.Unlock()

	pruneVisitorsLocked()

	v, ok := visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(limit, burst)}
		visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func pruneVisitorsLocked() {
	cutoff := time.Now().Add(-visitorTTL)
	for ip, v := range visitors {
		if v.lastSeen.Before(cutoff) {
			delete(visitors, ip)
		}
	}
}
