package reading

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestRegistry(t *testing.T, ttl time.Duration) (*Registry, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	r, err := NewRegistry(testDeck("The Fool", "The Magician", "The Empress"), ttl, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r, clock
}

func noop(*Session) error { return nil }

func TestNewRegistryRejectsEmptyDeck(t *testing.T) {
	if _, err := NewRegistry(nil, time.Minute); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("err = %v, want ErrEmptyDeck", err)
	}
}

func TestRegistryCreatesSessionOnFirstUse(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	id, err := r.Do("", func(s *Session) error {
		if !s.SelectionEnabled() {
			t.Error("new session is not open")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if id == "" {
		t.Fatal("Do returned an empty id")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	again, err := r.Do(id, noop)
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("known id %q was replaced by %q", id, again)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d after reuse, want 1", r.Len())
	}
}

func TestRegistryUnknownIDGetsFreshSession(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	id, err := r.Do("not-a-session", noop)
	if err != nil {
		t.Fatal(err)
	}
	if id == "not-a-session" {
		t.Error("registry adopted a client-chosen id")
	}
}

func TestRegistryIsolatesSessions(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	alice, _ := r.Do("", func(s *Session) error {
		_, err := s.Select(0)
		return err
	})
	bob, _ := r.Do("", noop)
	if alice == bob {
		t.Fatal("two visitors share an id")
	}

	_, _ = r.Do(bob, func(s *Session) error {
		if !s.SelectionEnabled() {
			t.Error("bob's session was locked by alice's selection")
		}
		return nil
	})
	_, _ = r.Do(alice, func(s *Session) error {
		if s.SelectionEnabled() {
			t.Error("alice's selection was lost")
		}
		return nil
	})
}

func TestRegistryPropagatesCallbackError(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)

	id, err := r.Do("", func(s *Session) error {
		_, err := s.Select(42)
		return err
	})
	if !errors.Is(err, ErrCardNotFound) {
		t.Errorf("err = %v, want ErrCardNotFound", err)
	}
	if id == "" {
		t.Error("id should be returned alongside the callback error")
	}
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	r, clock := newTestRegistry(t, 10*time.Minute)

	id, _ := r.Do("", func(s *Session) error {
		_, err := s.Select(1)
		return err
	})

	clock.Advance(9 * time.Minute)
	if got, _ := r.Do(id, noop); got != id {
		t.Fatal("session expired before its ttl")
	}

	clock.Advance(11 * time.Minute)
	got, _ := r.Do(id, func(s *Session) error {
		if !s.SelectionEnabled() {
			t.Error("expired session state leaked into the new session")
		}
		return nil
	})
	if got == id {
		t.Error("expired id was reused")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistrySweep(t *testing.T) {
	r, clock := newTestRegistry(t, time.Minute)

	old, _ := r.Do("", noop)
	clock.Advance(45 * time.Second)
	fresh, _ := r.Do("", noop)
	clock.Advance(30 * time.Second)

	if n := r.Sweep(); n != 1 {
		t.Errorf("Sweep evicted %d, want 1", n)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if got, _ := r.Do(fresh, noop); got != fresh {
		t.Error("fresh session was evicted")
	}
	if got, _ := r.Do(old, noop); got == old {
		t.Error("stale session survived the sweep")
	}
}

func TestRegistryZeroTTLNeverExpires(t *testing.T) {
	r, clock := newTestRegistry(t, 0)

	id, _ := r.Do("", noop)
	clock.Advance(1000 * time.Hour)
	if n := r.Sweep(); n != 0 {
		t.Errorf("Sweep evicted %d with ttl 0", n)
	}
	if got, _ := r.Do(id, noop); got != id {
		t.Error("session expired with ttl 0")
	}
}

func TestRegistryRunStopsOnCancel(t *testing.T) {
	r, _ := newTestRegistry(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRegistrySerialisesSameSession(t *testing.T) {
	r, _ := newTestRegistry(t, time.Hour)
	id, _ := r.Do("", noop)

	var wg sync.WaitGroup
	var mu sync.Mutex
	applied := 0
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, _ = r.Do(id, func(s *Session) error {
				ok, err := s.Select(idx)
				if ok {
					mu.Lock()
					applied++
					mu.Unlock()
				}
				return err
			})
		}(i)
	}
	wg.Wait()

	if applied != 1 {
		t.Errorf("%d concurrent selections applied, want 1", applied)
	}
}

func seededSessions() []Option {
	return []Option{WithRand(rand.New(rand.NewPCG(1, 2)))}
}

func order(s *Session) []string {
	var names []string
	for _, c := range s.Cards() {
		names = append(names, c.Name)
	}
	return names
}

func TestRegistrySessionOptionsAreDeterministic(t *testing.T) {
	r, err := NewRegistry(testDeck("The Fool", "The Magician", "The Empress", "The Emperor"), time.Hour,
		WithSessionOptions(seededSessions))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	var first, second []string
	if _, err := r.Do("", func(s *Session) error { first = order(s); return nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Do("", func(s *Session) error { second = order(s); return nil }); err != nil {
		t.Fatal(err)
	}
	if len(first) != 4 || fmt.Sprint(first) != fmt.Sprint(second) {
		t.Errorf("same seed dealt %v and %v", first, second)
	}
}

func TestRegistryConcurrentResetsAcrossSessions(t *testing.T) {
	r, err := NewRegistry(testDeck("The Fool", "The Magician", "The Empress"), time.Hour,
		WithSessionOptions(seededSessions))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	ids := make([]string, 2)
	for i := range ids {
		if ids[i], err = r.Do("", noop); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				r.Do(id, func(s *Session) error {
					s.Reset()
					return nil
				})
			}
		}(id)
	}
	wg.Wait()

	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}
