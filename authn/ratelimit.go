// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package authn

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map.
const maxTrackedClients = 1000

// deniedLimiter keeps one token bucket per client IP.
type deniedLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	perMinute int
}

func newDeniedLimiter(perMinute, burst int) *deniedLimiter {
	return &deniedLimiter{
		limiters:  make(map[string]*rate.Limiter),
		limit:     rate.Limit(float64(perMinute) / 60),
		burst:     burst,
		perMinute: perMinute,
	}
}

func (d *deniedLimiter) allow(clientIP string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	l, ok := d.limiters[clientIP]
	if !ok {
		if len(d.limiters) >= maxTrackedClients {
			d.evictIdle()
		}
		l = rate.NewLimiter(d.limit, d.burst)
		d.limiters[clientIP] = l
	}
	return l.Allow()
}

// evictIdle drops clients whose bucket has refilled. Caller must hold mu.
func (d *deniedLimiter) evictIdle() {
	now := time.Now()
	for ip, l := range d.limiters {
		if l.TokensAt(now) >= float64(d.burst) {
			delete(d.limiters, ip)
		}
	}
}

// retryAfterSeconds is the time for one token to refill, rounded up.
func (d *deniedLimiter) retryAfterSeconds() int {
	return max(1, (60+d.perMinute-1)/d.perMinute)
}
