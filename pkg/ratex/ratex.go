// Package ratex provides a keyed token-bucket rate limiter. It is used to
// throttle repeated login attempts against the same username so offline
// password guessing through the login path stays slow.
package ratex

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config defines the limiting parameters for one keyed limiter.
type Config struct {
	// AttemptsPerWindow is the number of attempts allowed in the time window.
	AttemptsPerWindow int
	// Window is the time window the attempts are spread over.
	Window time.Duration
	// Burst allows temporary bursts above the sustained rate.
	Burst int
}

// StrictLimit suits credential checks: 5 attempts per minute with the full
// window available as a burst.
var StrictLimit = Config{
	AttemptsPerWindow: 5,
	Window:            time.Minute,
	Burst:             5,
}

// Keyed tracks an independent token bucket per key (e.g. per username).
type Keyed struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

// NewKeyed builds a keyed limiter from the given config.
func NewKeyed(cfg Config) *Keyed {
	perSecond := float64(cfg.AttemptsPerWindow) / cfg.Window.Seconds()
	return &Keyed{
		rate:        rate.Limit(perSecond),
		burst:       cfg.Burst,
		lastCleanup: time.Now(),
	}
}

// Allow reports whether one more attempt for key is within the limit.
func (k *Keyed) Allow(key string) bool {
	return k.limiter(key).Allow()
}

func (k *Keyed) limiter(key string) *rate.Limiter {
	// Fast path: limiter already exists
	if l, ok := k.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	l := rate.NewLimiter(k.rate, k.burst)
	actual, _ := k.limiters.LoadOrStore(key, l)

	k.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose buckets are full again, so keys that
// stopped being attempted do not accumulate forever.
func (k *Keyed) maybeCleanup() {
	k.mu.Lock()
	defer k.mu.Unlock()

	if time.Since(k.lastCleanup) < 5*time.Minute {
		return
	}
	k.lastCleanup = time.Now()

	k.limiters.Range(func(key, value any) bool {
		l := value.(*rate.Limiter)
		// A full bucket means the key has been idle for at least a window.
		if l.Tokens() >= float64(k.burst) {
			k.limiters.Delete(key)
		}
		return true
	})
}
