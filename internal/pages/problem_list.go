package pages

import (
	"context"
	"slices"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/services"
)

// ProblemList is the searchable list of every problem.
//
// The TUI calls SetKeyword on each edit of the search box; the CLI sets a
// draft and calls Submit once.
type ProblemList struct {
	view
	problems services.ProblemService
	filter   models.ProblemFilter
	draft    models.ProblemFilter
	items    []models.Problem
}

func NewProblemList(problems services.ProblemService) *ProblemList {
	return &ProblemList{problems: problems}
}

// Load replaces the list with the problems matching filter.
func (l *ProblemList) Load(ctx context.Context, filter models.ProblemFilter) error {
	tok := l.start()
	items, err := l.problems.List(ctx, filter)
	if !l.finish(tok) {
		return ErrStale
	}
	defer l.mu.Unlock()

	l.filter = filter
	if err != nil {
		l.fail(err)
		return err
	}
	l.items = items
	l.status = StatusReady
	return nil
}

// SetKeyword re-fetches with keyword, keeping the other filters.
func (l *ProblemList) SetKeyword(ctx context.Context, keyword string) error {
	l.mu.Lock()
	filter := l.filter
	l.draft.Keyword = keyword
	l.mu.Unlock()

	filter.Keyword = keyword
	return l.Load(ctx, filter)
}

// SetDraft stores filter until Submit.
func (l *ProblemList) SetDraft(filter models.ProblemFilter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.draft = filter
}

// Submit loads with the draft filter.
func (l *ProblemList) Submit(ctx context.Context) error {
	l.mu.Lock()
	filter := l.draft
	l.mu.Unlock()
	return l.Load(ctx, filter)
}

// Items returns a copy of the loaded problems.
func (l *ProblemList) Items() []models.Problem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Filter returns the filter of the last load.
func (l *ProblemList) Filter() models.ProblemFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// ResourceList is the filterable list of learning resources.
type ResourceList struct {
	view
	resources services.ResourceService
	filter    models.ResourceFilter
	items     []models.Resource
}

func NewResourceList(resources services.ResourceService) *ResourceList {
	return &ResourceList{resources: resources}
}

// Load replaces the list with the resources matching filter.
// A min score outside 0 to 5 fails with a [*FormError] and sends nothing.
func (l *ResourceList) Load(ctx context.Context, filter models.ResourceFilter) error {
	if err := validateForm(resourceFilterForm{MinScore: filter.MinScore}); err != nil {
		return l.reject(err)
	}

	tok := l.start()
	items, err := l.resources.List(ctx, filter)
	if !l.finish(tok) {
		return ErrStale
	}
	defer l.mu.Unlock()

	l.filter = filter
	if err != nil {
		l.fail(err)
		return err
	}
	l.items = items
	l.status = StatusReady
	return nil
}

// SetKeyword re-fetches with keyword, keeping the other filters.
func (l *ResourceList) SetKeyword(ctx context.Context, keyword string) error {
	filter := l.Filter()
	filter.Keyword = keyword
	return l.Load(ctx, filter)
}

// Items returns a copy of the loaded resources.
func (l *ResourceList) Items() []models.Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Filter returns the filter of the last load.
func (l *ResourceList) Filter() models.ResourceFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}
