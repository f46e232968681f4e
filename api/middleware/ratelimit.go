package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type bucket struct {
	limiter *rate.Limiter
	lastSeen time.Time
}

// limiterStore is a mutex-guarded per-identity token-bucket map, with a
// background sweep evicting buckets unseen for an hour.
type limiterStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     rate.Limit
	burst   int
}

func newLimiterStore(rps float64, burst int) *limiterStore {
	s := &limiterStore{
		buckets: make(map[string]*bucket),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
	go s.sweep()
	return s
}

func (s *limiterStore) allow(identity string) bool {
	s.mu.Lock()
	b, ok := s.buckets[identity]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.buckets[identity] = b
	}
	b.lastSeen = time.Now()
	ok2 := b.limiter.Allow()
	s.mu.Unlock()
	return ok2
}

func (s *limiterStore) sweep() {
	for range time.Tick(5 * time.Minute) {
		cutoff := time.Now().Add(-time.Hour)
		s.mu.Lock()
		for id, b := range s.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(s.buckets, id)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimit applies a token bucket per API key (or client IP, when
// unauthenticated) at rps sustained / burst peak.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	store := newLimiterStore(rps, burst)
	return func(c *gin.Context) {
		identity, ok := c.Get("api_key")
		id, _ := identity.(string)
		if !ok || id == "" {
			id = c.ClientIP()
		}
		if !store.allow(id) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": "rate_limited", "message": "rate limit exceeded"},
			})
			return
		}
		c.Next()
	}
}
