package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UserRateLimiter keeps one token bucket per authenticated user.
type UserRateLimiter struct {
	mu       sync.Mutex
	visitors map[uuid.UUID]*visitor
	rps      rate.Limit
	burst    int
	route    string
	log      *zap.Logger
}

func NewUserRateLimiter(perMinute int, route string, logger *zap.Logger) *UserRateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	return &UserRateLimiter{
		visitors: make(map[uuid.UUID]*visitor),
		rps:      rate.Limit(float64(perMinute) / 60.0),
		burst:    5,
		route:    route,
		log:      logger,
	}
}

func (l *UserRateLimiter) getLimiter(userID uuid.UUID) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[userID] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup drops idle buckets every minute until ctx is done.
func (l *UserRateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-5 * time.Minute)
			l.mu.Lock()
			for id, v := range l.visitors {
				if v.lastSeen.Before(cutoff) {
					delete(l.visitors, id)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Handler must run after Auth.
func (l *UserRateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserID(r.Context())
		if !l.getLimiter(userID).Allow() {
			l.log.Warn("rate limit exceeded", zap.String("user_id", userID.String()), zap.String("path", r.URL.Path))
			metrics.RateLimited.WithLabelValues(l.route).Inc()
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}
