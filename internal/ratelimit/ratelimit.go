// Package ratelimit implements a per-source-IP sliding-window limiter used
// to guard a transport's receive path against multicast storms (a
// misbehaving or compromised host on the link flooding 224.0.0.251:5353).
package ratelimit

import (
	"sync"
	"time"
)

// entry tracks one source IP's query activity within the current window.
type entry struct {
	windowStart    time.Time
	cooldownExpiry time.Time
	lastSeen       time.Time
	queryCount     int
}

// Limiter enforces threshold queries/second per source IP, dropping
// everything from a source for cooldown once it exceeds threshold.
type Limiter struct {
	threshold  int
	cooldown   time.Duration
	maxEntries int

	mu      sync.Mutex
	sources map[string]*entry
}

// New builds a Limiter. threshold is queries allowed per one-second window
// before a source enters cooldown; maxEntries bounds memory use by evicting
// the least-recently-seen sources once exceeded.
func New(threshold int, cooldown time.Duration, maxEntries int) *Limiter {
	return &Limiter{
		threshold:  threshold,
		cooldown:   cooldown,
		maxEntries: maxEntries,
		sources:    make(map[string]*entry),
	}
}

// Allow reports whether a packet from sourceIP should be processed. It
// always returns true while sourceIP stays under threshold queries in the
// current one-second window, and false for the duration of cooldown once
// that window is exceeded.
func (l *Limiter) Allow(sourceIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	e, ok := l.sources[sourceIP]
	if !ok {
		if len(l.sources) >= l.maxEntries {
			l.evictLocked()
		}
		e = &entry{windowStart: now}
		l.sources[sourceIP] = e
	}
	e.lastSeen = now

	if now.Before(e.cooldownExpiry) {
		return false
	}

	if now.Sub(e.windowStart) >= time.Second {
		e.windowStart = now
		e.queryCount = 0
	}

	e.queryCount++
	if e.queryCount > l.threshold {
		e.cooldownExpiry = now.Add(l.cooldown)
		return false
	}

	return true
}

// evictLocked drops the 10% least-recently-seen entries. Caller holds mu.
func (l *Limiter) evictLocked() {
	toEvict := len(l.sources) / 10
	if toEvict == 0 {
		toEvict = 1
	}

	type candidate struct {
		ip       string
		lastSeen time.Time
	}
	candidates := make([]candidate, 0, len(l.sources))
	for ip, e := range l.sources {
		candidates = append(candidates, candidate{ip, e.lastSeen})
	}

	for i := 0; i < toEvict && len(candidates) > 0; i++ {
		oldest := 0
		for j := 1; j < len(candidates); j++ {
			if candidates[j].lastSeen.Before(candidates[oldest].lastSeen) {
				oldest = j
			}
		}
		delete(l.sources, candidates[oldest].ip)
		candidates = append(candidates[:oldest], candidates[oldest+1:]...)
	}
}

// Cleanup removes entries not seen in over a minute, bounding memory use
// for a long-running transport between bursts of activity.
func (l *Limiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-time.Minute)
	for ip, e := range l.sources {
		if e.lastSeen.Before(cutoff) {
			delete(l.sources, ip)
		}
	}
}
