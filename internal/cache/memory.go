// Package cache provides response cache backends keyed by request fingerprint.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/davidbz/plangate/internal/domain"
)

const (
	DefaultCapacity = 500
	DefaultTTL      = 5 * time.Minute
)

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Memory is an in-process LRU cache with a uniform TTL.
type Memory struct {
	lru    *expirable.LRU[string, *domain.Response]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory creates a memory cache holding at most capacity entries for ttl each.
func NewMemory(capacity int, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Memory{
		lru: expirable.NewLRU[string, *domain.Response](capacity, nil, ttl),
	}
}

// Get returns the live entry for fingerprint.
func (m *Memory) Get(_ context.Context, fingerprint string) (*domain.Response, bool) {
	resp, ok := m.lru.Get(fingerprint)
	if !ok {
		m.misses.Add(1)
		return nil, false
	}

	m.hits.Add(1)
	return resp, true
}

// Put stores a successful response. Nil responses are ignored.
func (m *Memory) Put(_ context.Context, fingerprint string, resp *domain.Response) {
	if resp == nil {
		return
	}
	m.lru.Add(fingerprint, resp)
}

// Stats returns hit, miss and live entry counts.
func (m *Memory) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Entries: m.lru.Len(),
	}
}

// Purge drops every entry.
func (m *Memory) Purge() {
	m.lru.Purge()
}
