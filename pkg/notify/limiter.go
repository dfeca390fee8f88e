package notify

import (
	"sync"

	"golang.org/x/time/rate"
)

const (
	limiterMarkRead    = "mark_read"
	limiterMarkAllRead = "mark_all_read"

	defaultMutationRate  rate.Limit = 5
	defaultMutationBurst int        = 10
)

// MutationLimiterStore manages per-endpoint rate limiters: endpoint -> rate
// limiter. Mutations past the limit skip the remote call; the local
// optimistic update still applies.
type MutationLimiterStore struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewMutationLimiterStore(defaultRate rate.Limit, defaultBurst int) *MutationLimiterStore {
	return &MutationLimiterStore{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *MutationLimiterStore) GetLimiter(endpoint string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[endpoint]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[endpoint] = limiter
	}
	return limiter
}

func (s *MutationLimiterStore) SetLimiter(endpoint string, endpointRate rate.Limit, endpointBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[endpoint] = rate.NewLimiter(endpointRate, endpointBurst)
}
