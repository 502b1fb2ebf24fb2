package visits

import (
	"context"
	"sync"
)

// Counter is the server side visitor count.
type Counter interface {
	Current(ctx context.Context) (int64, error)
	Increment(ctx context.Context) (int64, error)
}

// CountResource is the wire shape served to the page.
type CountResource struct {
	Count int64 `json:"count"`
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

// MemoryCounter is a process local Counter for development and tests.
type MemoryCounter struct {
	lk    sync.Mutex
	count int64
}

func (c *MemoryCounter) Current(_ context.Context) (int64, error) {
	c.lk.Lock()
	defer c.lk.Unlock()

	return c.count, nil
}

func (c *MemoryCounter) Increment(_ context.Context) (int64, error) {
	c.lk.Lock()
	defer c.lk.Unlock()

	c.count++
	return c.count, nil
}
