package pages

import (
	"context"
	"fmt"
	"slices"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
)

// CreateProblem is the new-problem form.
//
// On success the form is cleared and Created holds the new problem. On
// failure the input is kept so the user can retry.
type CreateProblem struct {
	view
	problems services.ProblemService
	tags     services.TagService
	form     ProblemForm
	tagList  []models.Tag
	created  *models.Problem
}

func NewCreateProblem(problems services.ProblemService, tags services.TagService) *CreateProblem {
	return &CreateProblem{problems: problems, tags: tags}
}

// Open loads the tags offered by the form.
func (c *CreateProblem) Open(ctx context.Context) error {
	tok := c.start()
	tags, err := c.tags.List(ctx)
	if !c.finish(tok) {
		return ErrStale
	}
	defer c.mu.Unlock()

	if err != nil {
		c.fail(err)
		return err
	}
	c.tagList = tags
	c.status = StatusReady
	return nil
}

// SetForm replaces the form input.
func (c *CreateProblem) SetForm(form ProblemForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// Submit validates the form and creates the problem.
// Invalid input fails with a [*FormError] and sends nothing.
func (c *CreateProblem) Submit(ctx context.Context) (*models.Problem, error) {
	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	if err := validateForm(form); err != nil {
		return nil, c.reject(err)
	}

	tok, err := c.begin()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.created = nil
	c.mu.Unlock()

	problem, err := c.problems.Create(ctx, form.request())
	if !c.finish(tok) {
		return problem, err
	}
	defer c.mu.Unlock()

	if err != nil {
		c.fail(err)
		return nil, err
	}
	c.created = problem
	c.form = ProblemForm{}
	c.status = StatusReady
	return problem, nil
}

// Form returns the current input.
func (c *CreateProblem) Form() ProblemForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	form := c.form
	form.TagIDs = slices.Clone(form.TagIDs)
	return form
}

// Tags returns the tags loaded by Open.
func (c *CreateProblem) Tags() []models.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tagList)
}

// Created returns the last created problem and its link, or nil.
func (c *CreateProblem) Created() (*models.Problem, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.created == nil {
		return nil, ""
	}
	return c.created, ProblemLink(c.created.ProblemID)
}

// CreateSolution is the new-solution form for one problem.
type CreateSolution struct {
	view
	solutions services.SolutionService
	problemID int
	form      SolutionForm
	created   *models.Solution
}

func NewCreateSolution(solutions services.SolutionService, problemID int) *CreateSolution {
	return &CreateSolution{solutions: solutions, problemID: problemID}
}

// SetForm replaces the form input.
func (c *CreateSolution) SetForm(form SolutionForm) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form = form
}

// Submit validates the form and creates the solution.
func (c *CreateSolution) Submit(ctx context.Context) (*models.Solution, error) {
	if c.problemID <= 0 {
		return nil, fmt.Errorf("%w: problem id must be positive", shared.ErrInvalidArgument)
	}

	c.mu.Lock()
	form := c.form
	c.mu.Unlock()

	if err := validateForm(form); err != nil {
		return nil, c.reject(err)
	}

	tok, err := c.begin()
	if err != nil {
		return nil, err
	}

	solution, err := c.solutions.Create(ctx, c.problemID, form.request())
	if !c.finish(tok) {
		return solution, err
	}
	defer c.mu.Unlock()

	if err != nil {
		c.fail(err)
		return nil, err
	}
	c.created = solution
	c.form = SolutionForm{}
	c.status = StatusReady
	return solution, nil
}

// Form returns the current input.
func (c *CreateSolution) Form() SolutionForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Created returns the last created solution, or nil.
func (c *CreateSolution) Created() *models.Solution {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}
