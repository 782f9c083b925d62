package reading

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arcanaland/unfoldfate/internal/deck"
	"github.com/google/uuid"
)

// Registry gives every visitor an isolated Session, keyed by an opaque id,
// and forgets sessions that have been idle for longer than its ttl.
type Registry struct {
	deck    *deck.Deck
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
	options func() []Option

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu       sync.Mutex
	session  *Session
	lastSeen time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// WithSessionOptions calls options for every session the registry creates.
// Sessions are reset concurrently, so options must not hand out a shared
// *rand.Rand.
func WithSessionOptions(options func() []Option) RegistryOption {
	return func(r *Registry) {
		r.options = options
	}
}

// NewRegistry creates a registry that deals sessions from d.
func NewRegistry(d *deck.Deck, ttl time.Duration, opts ...RegistryOption) (*Registry, error) {
	if d == nil || len(d.Cards) == 0 {
		return nil, ErrEmptyDeck
	}

	r := &Registry{
		deck:    d,
		ttl:     ttl,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Do runs fn against the session for id while holding that session's lock.
// An empty, unknown or expired id starts a fresh session under a new id.
// It returns the id the caller should use from now on.
func (r *Registry) Do(id string, fn func(*Session) error) (string, error) {
	id, e, err := r.acquire(id)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return id, fn(e.session)
}

func (r *Registry) acquire(id string) (string, *entry, error) {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[id]; ok {
		if !r.expired(e, now) {
			e.lastSeen = now
			return id, e, nil
		}
		delete(r.entries, id)
	}

	var opts []Option
	if r.options != nil {
		opts = r.options()
	}
	s, err := New(r.deck, opts...)
	if err != nil {
		return "", nil, err
	}
	id = r.newID()
	e := &entry{session: s, lastSeen: now}
	r.entries[id] = e

	log.Printf("Created reading session: id=%s cards=%d", id, s.Len())
	return id, e, nil
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, e := range r.entries {
		if r.expired(e, now) {
			delete(r.entries, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("Evicted %d idle reading sessions, %d remain", evicted, len(r.entries))
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
