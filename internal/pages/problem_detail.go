package pages

import (
	"context"
	"fmt"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
)

// ProblemDetail shows one problem aggregate and lets the user mark it resolved.
type ProblemDetail struct {
	view
	problems services.ProblemService
	id       int
	data     *models.ProblemFull
}

func NewProblemDetail(problems services.ProblemService) *ProblemDetail {
	return &ProblemDetail{problems: problems}
}

// Load fetches the aggregate for id.
func (d *ProblemDetail) Load(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: problem id must be positive", shared.ErrInvalidArgument)
	}

	tok := d.start()
	full, err := d.problems.Full(ctx, id)
	if !d.finish(tok) {
		return ErrStale
	}
	defer d.mu.Unlock()

	if d.id != id {
		d.data = nil
	}
	d.id = id
	if err != nil {
		d.fail(err)
		return err
	}
	d.data = full
	d.status = StatusReady
	return nil
}

// Resolve marks the loaded problem resolved and re-fetches the aggregate.
//
// It does nothing when the problem is already resolved. The resolve response
// itself is ignored. On failure the loaded data is kept and the banner is set.
func (d *ProblemDetail) Resolve(ctx context.Context) error {
	d.mu.Lock()
	if d.data == nil {
		d.mu.Unlock()
		return fmt.Errorf("%w: no problem loaded", shared.ErrInvalidInput)
	}
	resolved := d.data.Problem.Resolved
	id := d.id
	d.mu.Unlock()

	if resolved {
		return nil
	}

	tok, err := d.begin()
	if err != nil {
		return err
	}

	if _, err := d.problems.Resolve(ctx, id); err != nil {
		if d.finish(tok) {
			d.fail(err)
			d.mu.Unlock()
		}
		return err
	}

	full, err := d.problems.Full(ctx, id)
	if !d.finish(tok) {
		return ErrStale
	}
	defer d.mu.Unlock()

	if err != nil {
		d.fail(err)
		return err
	}
	d.data = full
	d.status = StatusReady
	return nil
}

// CanResolve reports whether the resolve action should be offered.
// Once resolved the view shows a badge instead.
func (d *ProblemDetail) CanResolve() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data != nil && !d.data.Problem.Resolved && d.status != StatusMutating
}

// Data returns the loaded aggregate, or nil.
func (d *ProblemDetail) Data() *models.ProblemFull {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.data == nil {
		return nil
	}
	out := *d.data
	return &out
}

// ID returns the id of the last load.
func (d *ProblemDetail) ID() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.id
}
