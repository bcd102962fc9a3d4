package pages

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/shared"
)

var (
	// ErrStale is returned by a fetch whose response was superseded by a newer fetch or by Close.
	ErrStale = errors.New("stale response discarded")
	// ErrBusy is returned when a change is submitted while another is in flight.
	ErrBusy = errors.New("another change is in progress")
)

// Status is the lifecycle state of an async view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
	StatusMutating
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	case StatusMutating:
		return "mutating"
	default:
		return "unknown"
	}
}

// Generation hands out monotonically increasing fetch tokens for one view.
type Generation struct {
	n atomic.Uint64
}

// Next returns a new token, invalidating every earlier one.
func (g *Generation) Next() uint64 { return g.n.Add(1) }

// IsCurrent reports whether tok is the latest token.
func (g *Generation) IsCurrent(tok uint64) bool { return g.n.Load() == tok }

// Invalidate discards every outstanding token.
func (g *Generation) Invalidate() { g.n.Add(1) }

// view carries the status, banner and generation shared by every controller.
type view struct {
	mu     sync.Mutex
	gen    Generation
	status Status
	banner string
}

// start takes a fetch token and moves to loading.
func (v *view) start() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.status = StatusLoading
	v.banner = ""
	return v.gen.Next()
}

// begin moves to mutating and takes a token for the change.
// It fails with [ErrBusy] while another change is in flight.
func (v *view) begin() (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == StatusMutating {
		return 0, ErrBusy
	}
	v.status = StatusMutating
	v.banner = ""
	return v.gen.Next(), nil
}

// reject records a validation failure without leaving the current status.
func (v *view) reject(err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = err.Error()
	return err
}

// finish locks the view and reports whether tok may still update it.
// The caller must unlock v.mu when finish returns true.
func (v *view) finish(tok uint64) bool {
	v.mu.Lock()
	if !v.gen.IsCurrent(tok) {
		v.mu.Unlock()
		return false
	}
	return true
}

// fail records err as the banner. The caller holds v.mu.
func (v *view) fail(err error) {
	v.status = StatusError
	v.banner = err.Error()
}

// Close drops late responses for this view.
func (v *view) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen.Invalidate()
	if v.status == StatusLoading || v.status == StatusMutating {
		v.status = StatusIdle
	}
}

// Status returns the current lifecycle state.
func (v *view) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Banner returns the current error message, if any.
func (v *view) Banner() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.banner
}

// CurrentUser returns the signed-in user or [shared.ErrNotAuthenticated].
func CurrentUser(ctx context.Context, store repositories.SessionStore) (*models.User, error) {
	user, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return user, nil
}

// ProblemLink is the route of a problem, shown after it is created.
func ProblemLink(problemID int) string {
	return "/problems/" + itoa(problemID)
}
