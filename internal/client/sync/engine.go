// Package sync contains the reconciliation core: the merge-on-login resolver
// and the debounced incremental synchronizer that keeps the server cart
// converged with the local one.
package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/notify"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
)

const DefaultDebounce = 500 * time.Millisecond

const cycleTimeout = 30 * time.Second

// cartBackend is the slice of the api client the engine issues diffs
// through.
type cartBackend interface {
	AddItem(ctx context.Context, productID string, qty int) error
	RemoveItem(ctx context.Context, productID string) error
	UpdateQuantity(ctx context.Context, productID string, qty int) error
}

// sessionControl is what the engine needs from the session guard: the gate
// and the escalation path.
type sessionControl interface {
	Authenticated() bool
	ForceLogout(ctx context.Context)
}

// Engine is the steady-state synchronizer. Each store mutation while
// authenticated (re)arms a trailing-edge debounce timer; when it fires, the
// engine diffs the current cart against the last-confirmed baseline and
// issues the minimal set of add/remove/update calls.
//
// The baseline is committed per successfully applied item, so an aborted
// batch never re-issues operations that already landed.
type Engine struct {
	client   cartBackend
	session  sessionControl
	snapshot func() map[string]int
	notifier notify.Notifier
	log      logging.Logger

	debounce time.Duration

	mu           sync.Mutex
	baseline     map[string]int
	timer        *time.Timer
	inFlight     bool
	suppressNext bool
	stopped      bool
}

func NewEngine(client cartBackend, session sessionControl, snapshot func() map[string]int, notifier notify.Notifier, log logging.Logger) *Engine {
	return &Engine{
		client:   client,
		session:  session,
		snapshot: snapshot,
		notifier: notifier,
		log:      log,
		debounce: DefaultDebounce,
		baseline: map[string]int{},
	}
}

// SetDebounce overrides the quiet period. Must be called before the first
// trigger.
func (e *Engine) SetDebounce(d time.Duration) {
	e.debounce = d
}

// SetBaseline installs the last-confirmed server state (after merge or plain
// fetch) and suppresses the trigger the accompanying store materialization
// is about to cause: that content is definitionally already consistent.
func (e *Engine) SetBaseline(items models.Cart) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseline = items.Quantities()
	e.suppressNext = true
}

// Baseline returns a copy of the current baseline.
func (e *Engine) Baseline() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.baseline))
	for k, v := range e.baseline {
		out[k] = v
	}
	return out
}

// Reset drops the baseline and any pending cycle; called on logout.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.baseline = map[string]int{}
	e.suppressNext = false
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// Trigger is the store-subscription entry point. Unauthenticated triggers
// are ignored; otherwise the debounce timer is (re)armed so only the last
// trigger within the window runs a cycle.
func (e *Engine) Trigger(models.Cart) {
	if !e.session.Authenticated() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return
	}
	if e.suppressNext {
		e.suppressNext = false
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, e.runCycle)
}

// Stop cancels any pending debounce timer. An in-flight cycle runs to
// completion; only future cycles are prevented.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopped = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// runCycle executes one sync cycle. Single-flight: a cycle already in
// progress makes this a no-op; the change it would have synced is covered by
// the next trigger, because the diff is computed against current store
// content at dispatch time.
func (e *Engine) runCycle() {
	e.mu.Lock()
	if e.inFlight || e.stopped {
		e.timer = nil
		e.mu.Unlock()
		return
	}
	e.inFlight = true
	e.timer = nil
	current := e.snapshot()
	baseline := make(map[string]int, len(e.baseline))
	for k, v := range e.baseline {
		baseline[k] = v
	}
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	err := e.applyDiff(ctx, baseline, current)
	cancel()

	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()

	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			e.log.Warn(ctx, "sync unauthorized, forcing logout")
			if e.notifier != nil {
				e.notifier.Notify("Your session has expired, please sign in again")
			}
			e.session.ForceLogout(context.Background())
			return
		}
		// transient failure: baseline left behind on the failed item, the
		// next trigger recomputes the remainder
		e.log.Warn(ctx, "sync cycle aborted", "error", err)
	}
}

// applyDiff issues the per-item operations and advances the baseline for
// each one that succeeds. The first failure aborts the remaining batch.
func (e *Engine) applyDiff(ctx context.Context, baseline, current map[string]int) error {
	for id := range baseline {
		if _, ok := current[id]; ok {
			continue
		}
		if err := e.client.RemoveItem(ctx, id); err != nil {
			return err
		}
		e.commit(id, 0, true)
	}

	for id, qty := range current {
		base, ok := baseline[id]
		switch {
		case !ok:
			if err := e.client.AddItem(ctx, id, qty); err != nil {
				return err
			}
		case base != qty:
			if err := e.client.UpdateQuantity(ctx, id, qty); err != nil {
				return err
			}
		default:
			continue
		}
		e.commit(id, qty, false)
	}

	return nil
}

func (e *Engine) commit(id string, qty int, removed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if removed {
		delete(e.baseline, id)
		return
	}
	e.baseline[id] = qty
}
