package httpapi

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/revaer/revaer/pkg/types"
)

// limiterRegistry lazily creates and caches one token-bucket limiter
// per API key id, grounded on the reference stack's per-client
// rate-limiter map (pkg/ingress/middleware.go's CheckRateLimit):
// create-on-first-use, guarded by a single mutex, rebuilt from the
// key's persisted RateLimit if its parameters change.
type limiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*cachedLimiter
}

type cachedLimiter struct {
	limiter *rate.Limiter
	burst   int
	period  int64 // nanoseconds, to detect a changed RateLimit cheaply
}

func newLimiterRegistry() *limiterRegistry {
	return &limiterRegistry{limiters: make(map[string]*cachedLimiter)}
}

// allow reports whether keyID may proceed under limit right now,
// creating or replacing its cached limiter if limit's parameters
// changed since the last call.
func (r *limiterRegistry) allow(keyID string, limit types.RateLimit) bool {
	r.mu.Lock()
	entry, ok := r.limiters[keyID]
	if !ok || entry.burst != limit.Burst || entry.period != int64(limit.ReplenishPeriod) {
		entry = &cachedLimiter{
			limiter: rate.NewLimiter(rate.Every(limit.ReplenishPeriod), limit.Burst),
			burst:   limit.Burst,
			period:  int64(limit.ReplenishPeriod),
		}
		r.limiters[keyID] = entry
	}
	r.mu.Unlock()
	return entry.limiter.Allow()
}
