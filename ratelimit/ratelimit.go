package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Config holds configuration for rate limiting
type Config struct {
	MaxRequests     int           // Maximum number of requests allowed
	WindowSize      time.Duration // Time window for rate limiting
	CleanupInterval time.Duration // How often to clean up expired entries
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxRequests:     10,              // 10 requests
		WindowSize:      time.Second,     // per second
		CleanupInterval: 5 * time.Minute, // cleanup every 5 minutes
	}
}

// RateLimiter implements sliding window rate limiting keyed by client,
// typically a caller IP on the wipe endpoints.
type RateLimiter struct {
	config      *Config
	requests    map[string][]time.Time
	mu          sync.Mutex
	stopCleanup chan struct{}
}

// NewRateLimiter creates a new rate limiter with the given configuration
func NewRateLimiter(config *Config) *RateLimiter {
	if config == nil {
		config = DefaultConfig()
	}
	rl := &RateLimiter{
		config:      config,
		requests:    make(map[string][]time.Time),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupExpiredEntries()
	return rl
}

// Allow checks if a request from the given key is allowed
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.config.WindowSize)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[key][:0:0]
	for _, ts := range rl.requests[key] {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	if len(valid) >= rl.config.MaxRequests {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

// Reset removes all entries for a given key
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.requests, key)
}

// cleanupExpiredEntries periodically removes expired entries to prevent
// memory leaks
func (rl *RateLimiter) cleanupExpiredEntries() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.config.WindowSize)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, requests := range rl.requests {
		valid := requests[:0:0]
		for _, ts := range requests {
			if ts.After(cutoff) {
				valid = append(valid, ts)
			}
		}
		if len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	close(rl.stopCleanup)
}

// Error represents a rate limit rejection
type Error struct {
	Key string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded for %q", e.Key)
}
