// Package prediction holds the last successful prediction of a form session.
package prediction

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-timelineform/pkg/timeline"
)

// Snapshot is a point-in-time copy of the cached prediction. Version starts
// at 1 for the first prediction and increases with every Set.
type Snapshot struct {
	Values    []timeline.Value `json:"values"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Version   uint64           `json:"version"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source used for Snapshot.UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithBuffer sets the per-subscriber channel buffer.
func WithBuffer(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.buffer = size
		}
	}
}

// Cache is a single-slot holder. It starts absent, every Set overwrites the
// slot unconditionally and nothing ever clears it.
type Cache struct {
	mu          sync.RWMutex
	current     Snapshot
	present     bool
	now         func() time.Time
	buffer      int
	subscribers map[chan Snapshot]struct{}
}

// NewCache returns an empty cache.
func NewCache(options ...Option) *Cache {
	c := &Cache{
		now:         time.Now,
		buffer:      1,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Set replaces the cached prediction with a copy of values and notifies
// subscribers.
func (c *Cache) Set(values []timeline.Value) {
	c.mu.Lock()
	c.current = Snapshot{
		Values:    timeline.CloneValues(values),
		UpdatedAt: c.now(),
		Version:   c.current.Version + 1,
	}
	c.present = true
	snapshot := c.current
	for ch := range c.subscribers {
		publish(ch, snapshot)
	}
	c.mu.Unlock()
}

// Get returns a copy of the cached prediction, or false when no prediction
// has succeeded yet.
func (c *Cache) Get() ([]timeline.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.present {
		return nil, false
	}
	return timeline.CloneValues(c.current.Values), true
}

// Snapshot returns the cached prediction with its metadata.
func (c *Cache) Snapshot() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.present {
		return Snapshot{}, false
	}
	return cloneSnapshot(c.current), true
}

// Subscribe returns a channel receiving a snapshot after every Set. When a
// prediction is already cached it is delivered first. Slow subscribers only
// ever see the newest snapshot. The channel is closed once ctx is done.
func (c *Cache) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, c.buffer)

	c.mu.Lock()
	c.subscribers[ch] = struct{}{}
	if c.present {
		publish(ch, c.current)
	}
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subscribers, ch)
		close(ch)
		c.mu.Unlock()
	}()

	return ch
}

// publish never blocks: a full buffer drops its oldest entry.
func publish(ch chan Snapshot, snapshot Snapshot) {
	snapshot = cloneSnapshot(snapshot)
	for {
		select {
		case ch <- snapshot:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func cloneSnapshot(s Snapshot) Snapshot {
	s.Values = timeline.CloneValues(s.Values)
	return s
}
