package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"callops-platform/internal/callops"

	"github.com/cenkalti/backoff/v4"
)

// flakyStore fails the first failures saves, then records what it was handed.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	saved    []callops.State
}

func (f *flakyStore) Load(context.Context) (callops.State, bool, error) {
	return callops.State{}, false, nil
}

func (f *flakyStore) Save(_ context.Context, st callops.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("backend unavailable")
	}
	f.saved = append(f.saved, st)
	return nil
}

func (f *flakyStore) savedStates() []callops.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]callops.State(nil), f.saved...)
}

func newTestAutosaver(store Store) *Autosaver {
	a := NewAutosaver(store, slog.Default())
	a.newBackOff = func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = time.Millisecond
		bo.MaxElapsedTime = time.Second
		return bo
	}
	return a
}

func TestAutosaver_RetriesTransientFailures(t *testing.T) {
	store := &flakyStore{failures: 2}
	a := newTestAutosaver(store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	a.Notify(callops.State{ActiveCallID: "call-1"})

	deadline := time.After(2 * time.Second)
	for len(store.savedStates()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("autosaver never persisted the state")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	saved := store.savedStates()
	if saved[0].ActiveCallID != "call-1" {
		t.Fatalf("unexpected saved state: %+v", saved[0])
	}
}

func TestAutosaver_LatestStateWins(t *testing.T) {
	store := &flakyStore{}
	a := newTestAutosaver(store)

	// Notify repeatedly before Run drains anything: only the last state must
	// survive the coalescing mailbox.
	for i := 0; i < 5; i++ {
		a.Notify(callops.State{ActiveCallID: "stale"})
	}
	a.Notify(callops.State{ActiveCallID: "latest"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(store.savedStates()) == 0 {
		select {
		case <-deadline:
			t.Fatalf("autosaver never persisted the state")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	saved := store.savedStates()
	if saved[0].ActiveCallID != "latest" {
		t.Fatalf("expected latest state persisted first, got %q", saved[0].ActiveCallID)
	}
}

func TestAutosaver_FinalFlushOnShutdown(t *testing.T) {
	store := &flakyStore{}
	a := newTestAutosaver(store)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	// Cancel immediately after notifying; the pending state may be picked up
	// either by the normal drain or the final flush, but it must be persisted.
	a.Notify(callops.State{ActiveCallID: "shutdown"})
	cancel()
	<-done

	saved := store.savedStates()
	if len(saved) == 0 || saved[len(saved)-1].ActiveCallID != "shutdown" {
		t.Fatalf("expected pending state persisted on shutdown, got %+v", saved)
	}
}
