package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// maxKeptErrors bounds the errors held between Waits; later ones are only
// counted.
const maxKeptErrors = 100

// ErrPanic marks task errors produced by a recovered panic.
var ErrPanic = errors.New("goroutine panicked")

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	dropped int
	wg      *sync.WaitGroup
	sema    chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		wg:   &sync.WaitGroup{},
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go schedules f under the name task and reports whether it did.
//
// It blocks while the manager is at its concurrency limit. If pCtx is done
// before a slot frees up, f is never run and Go returns false. Once scheduled,
// f always runs and receives pCtx to decide how to react to cancellation.
func (g *Manager) Go(pCtx context.Context, task string, f func(ctx context.Context) error) bool {
	if pCtx.Err() != nil {
		slog.WarnContext(pCtx, "goroutine canceled before start", "task", task, "because", pCtx.Err())
		return false
	}

	select {
	case g.sema <- struct{}{}:
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "task", task, "because", pCtx.Err())
		return false
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "task", task, "stack", string(debug.Stack()))
				g.collect(fmt.Errorf("%s: %w: %v", task, ErrPanic, rvr))
			}
		}()

		if err := f(pCtx); err != nil {
			g.collect(fmt.Errorf("%s: %w", task, err))
		}
	}()

	return true
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.errs) >= maxKeptErrors {
		g.dropped++
		return
	}
	g.errs = append(g.errs, err)
}

// Wait blocks until all scheduled goroutines finish and returns any collected
// errors. Collected errors are cleared so the manager can be waited on again.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	errs := g.errs
	if g.dropped > 0 {
		errs = append(errs, fmt.Errorf("%d more task errors not kept", g.dropped))
	}
	g.errs, g.dropped = nil, 0

	return errors.Join(errs...)
}
