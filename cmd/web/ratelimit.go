package main

import (
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	limiterClients = 4096
	limiterIdleTTL = 10 * time.Minute
)

// attemptLimiter throttles access code attempts per client with a token bucket each.
type attemptLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *expirable.LRU[string, *rate.Limiter]
}

// newAttemptLimiter allows perMinute attempts per client and minute. Zero or less disables limiting.
func newAttemptLimiter(perMinute int) *attemptLimiter {
	if perMinute <= 0 {
		return &attemptLimiter{limit: rate.Inf, burst: 0, limiters: nil} //nolint:exhaustruct // mutex zero value
	}
	return &attemptLimiter{ //nolint:exhaustruct // mutex zero value
		limit:    rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		burst:    perMinute,
		limiters: expirable.NewLRU[string, *rate.Limiter](limiterClients, nil, limiterIdleTTL),
	}
}

func (l *attemptLimiter) Allow(client string) bool {
	if l.limit == rate.Inf {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters.Get(client)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(client, limiter)
	}
	l.mu.Unlock()

	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
