package statestore

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Minute

type memoryEntry struct {
	expiresAt time.Time
	value     string
}

func (e memoryEntry) expired() bool {
	return time.Now().After(e.expiresAt)
}

// Memory is an in-memory state store with TTL-based expiration. A janitor
// goroutine sweeps expired entries; call Close when done with the store.
// Suitable for single-process deployments and tests.
type Memory struct {
	entries map[string]memoryEntry
	done    chan struct{}
	mu      sync.Mutex
	closed  bool
}

// MemoryOption configures the in-memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	cleanupInterval time.Duration
}

// WithCleanupInterval sets how often expired entries are swept.
// A non-positive interval disables the janitor; expired entries are then
// only dropped lazily on access.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) {
		o.cleanupInterval = d
	}
}

// NewMemory creates an in-memory state store.
func NewMemory(opts ...MemoryOption) *Memory {
	o := &memoryOptions{cleanupInterval: defaultCleanupInterval}
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor(o.cleanupInterval)
	}

	return m
}

// Save stores a token with its value for the given TTL.
func (m *Memory) Save(_ context.Context, token, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.entries[token] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Get returns the stored value for a live token.
// Returns ErrNotFound for an unknown or expired token.
func (m *Memory) Get(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[token]
	if !ok {
		return "", ErrNotFound
	}
	if e.expired() {
		delete(m.entries, token)
		return "", ErrNotFound
	}
	return e.value, nil
}

// Delete removes a token. Deleting an absent token is not an error.
func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, token)
	return nil
}

// Close stops the janitor and drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.entries = make(map[string]memoryEntry)
	return nil
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for token, e := range m.entries {
		if e.expired() {
			delete(m.entries, token)
		}
	}
}
