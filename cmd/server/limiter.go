package main

import (
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// limiters keeps one token bucket per user. The least recently seen users are evicted
// so the set stays bounded.
type limiters struct {
	limit rate.Limit
	burst int
	cache *lru.Cache
}

func newLimiters(perSecond float64, burst, size int) (*limiters, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &limiters{limit: rate.Limit(perSecond), burst: burst, cache: cache}, nil
}

func (l *limiters) get(userID string) *rate.Limiter {
	if v, ok := l.cache.Get(userID); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(l.limit, l.burst)
	// another request may have raced us here
	if prev, ok, _ := l.cache.PeekOrAdd(userID, lim); ok {
		return prev.(*rate.Limiter)
	}
	return lim
}

func (l *limiters) allow(userID string) bool {
	return l.get(userID).Allow()
}
