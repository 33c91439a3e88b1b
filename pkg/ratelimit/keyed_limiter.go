package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// LimiterStore hands out a rate limiter per key. Keeping this behind an
// interface means the HTTP middleware carries no process-global state and a
// distributed implementation can be swapped in later.
type LimiterStore interface {
	Limiter(key string) *rate.Limiter
}

type memoryLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewMemoryLimiterStore creates an in-process LimiterStore allowing rps
// requests per second with the given burst per key.
func NewMemoryLimiterStore(rps float64, burst int) LimiterStore {
	return &memoryLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (s *memoryLimiterStore) Limiter(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}
