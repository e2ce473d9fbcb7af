package cache

import (
	"context"

	"github.com/davidbz/plangate/internal/domain"
)

// Disabled never stores anything. It is installed when caching is turned off.
type Disabled struct{}

// Get always misses.
func (Disabled) Get(context.Context, string) (*domain.Response, bool) {
	return nil, false
}

// Put discards the response.
func (Disabled) Put(context.Context, string, *domain.Response) {}

// Stats is always empty.
func (Disabled) Stats() Stats {
	return Stats{}
}

// Store is a response cache that reports its own statistics.
type Store interface {
	domain.ResponseCache
	Stats() Stats
}

var (
	_ Store = Disabled{}
	_ Store = (*Memory)(nil)
)
