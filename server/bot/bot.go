// Package bot turns chat messages into todo operations and formats the
// Chinese replies, including the scheduled report and reminder pushes.
package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/chatodo/chatodo/server/service/todo"
)

// Sender delivers an outbound message to a conversation. mentionAll asks the
// transport to mention every member, which only group transports honor.
type Sender interface {
	Send(ctx context.Context, conversationKey string, text string, mentionAll bool) error
}

// Dispatcher parses "/todo" commands and runs the scheduled pushes.
type Dispatcher struct {
	svc     *todo.Service
	sender  Sender
	advance time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu       sync.Mutex
	limiters map[string]*convLimiter
}

// 每会话限流：突发 5 条，之后每秒补 1 条。
const (
	limiterBurst = 5
	limiterRate  = rate.Limit(1)
	// Idle limiters are evicted once the map grows past this size.
	maxLimiters    = 1024
	limiterIdleTTL = 10 * time.Minute
)

type convLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a dispatcher. advance is how long before a deadline the
// reminder push fires.
func New(svc *todo.Service, sender Sender, advance time.Duration) *Dispatcher {
	return &Dispatcher{
		svc:      svc,
		sender:   sender,
		advance:  advance,
		now:      time.Now,
		logger:   slog.Default(),
		limiters: make(map[string]*convLimiter),
	}
}

// SetLogger overrides the default logger.
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *Dispatcher) allow(key string) bool {
	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	entry, ok := d.limiters[key]
	if !ok {
		if len(d.limiters) >= maxLimiters {
			d.evictIdleLocked(now)
		}
		entry = &convLimiter{limiter: rate.NewLimiter(limiterRate, limiterBurst)}
		d.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// evictIdleLocked drops limiters not seen within limiterIdleTTL. Caller holds mu.
func (d *Dispatcher) evictIdleLocked(now time.Time) {
	for key, entry := range d.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(d.limiters, key)
		}
	}
}
