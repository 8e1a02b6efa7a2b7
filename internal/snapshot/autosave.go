package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"callops-platform/internal/callops"

	"github.com/cenkalti/backoff/v4"
)

// Autosaver mirrors store state to a snapshot backend without making callers
// wait. Mutations hand it the latest state via Notify; a single goroutine
// writes it out, retrying transient backend failures with exponential
// backoff. Latest state wins: intermediate states that arrive while a write
// is in flight are coalesced.
type Autosaver struct {
	store Store
	log   *slog.Logger

	mu      sync.Mutex
	pending *callops.State
	kick    chan struct{}

	// newBackOff is swappable so tests do not wait on real backoff delays.
	newBackOff func() backoff.BackOff
}

func NewAutosaver(store Store, log *slog.Logger) *Autosaver {
	return &Autosaver{
		store: store,
		log:   log,
		kick:  make(chan struct{}, 1),
		newBackOff: func() backoff.BackOff {
			bo := backoff.NewExponentialBackOff()
			bo.InitialInterval = 100 * time.Millisecond
			bo.MaxElapsedTime = 30 * time.Second
			return bo
		},
	}
}

// Notify records st as the next state to persist. Never blocks.
func (a *Autosaver) Notify(st callops.State) {
	a.mu.Lock()
	a.pending = &st
	a.mu.Unlock()
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// Run drains pending states until ctx is canceled, then attempts one final
// write of whatever is still pending.
func (a *Autosaver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.flushFinal()
			return
		case <-a.kick:
			st, ok := a.take()
			if !ok {
				continue
			}
			a.save(ctx, st)
		}
	}
}

func (a *Autosaver) take() (callops.State, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return callops.State{}, false
	}
	st := *a.pending
	a.pending = nil
	return st, true
}

func (a *Autosaver) save(ctx context.Context, st callops.State) {
	op := func() error {
		return a.store.Save(ctx, st)
	}
	if err := backoff.Retry(op, backoff.WithContext(a.newBackOff(), ctx)); err != nil {
		a.log.Error("snapshot save failed", "err", err)
	}
}

func (a *Autosaver) flushFinal() {
	st, ok := a.take()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.Save(ctx, st); err != nil {
		a.log.Error("final snapshot save failed", "err", err)
	}
}
