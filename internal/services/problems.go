package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/solvex/internal/models"
)

// ProblemsAPI implements [ProblemService].
type ProblemsAPI struct {
	client *Client
}

func NewProblemsAPI(c *Client) *ProblemsAPI { return &ProblemsAPI{client: c} }

// List returns every problem matching filter. The API does not paginate.
//
// Calls GET /problems?keyword=&type=&tag= with empty values omitted.
func (p *ProblemsAPI) List(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, error) {
	return getList[models.Problem](ctx, p.client, withQuery("/problems", filter.Query().Encode()))
}

// Get calls GET /problems/{id}.
func (p *ProblemsAPI) Get(ctx context.Context, problemID int) (*models.ProblemWithAuthor, error) {
	var problem models.ProblemWithAuthor
	if err := p.client.Do(ctx, http.MethodGet, fmt.Sprintf("/problems/%d", problemID), nil, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

// Full fetches the aggregate: the problem with its solutions, tags, linked resources and relations.
//
// Calls GET /problems/{id}/full.
func (p *ProblemsAPI) Full(ctx context.Context, problemID int) (*models.ProblemFull, error) {
	var full models.ProblemFull
	if err := p.client.Do(ctx, http.MethodGet, fmt.Sprintf("/problems/%d/full", problemID), nil, &full); err != nil {
		return nil, err
	}
	return &full, nil
}

// Create calls POST /problems.
func (p *ProblemsAPI) Create(ctx context.Context, req models.CreateProblemRequest) (*models.Problem, error) {
	var problem models.Problem
	if err := p.client.Do(ctx, http.MethodPost, "/problems", req, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

// Update calls PATCH /problems/{id}.
func (p *ProblemsAPI) Update(ctx context.Context, problemID int, req models.UpdateProblemRequest) (*models.Problem, error) {
	var problem models.Problem
	if err := p.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/problems/%d", problemID), req, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

// Resolve marks a problem resolved.
//
// Calls POST /problems/{id}/resolve.
func (p *ProblemsAPI) Resolve(ctx context.Context, problemID int) (*models.Problem, error) {
	var problem models.Problem
	if err := p.client.Do(ctx, http.MethodPost, fmt.Sprintf("/problems/%d/resolve", problemID), nil, &problem); err != nil {
		return nil, err
	}
	return &problem, nil
}

// Delete calls DELETE /problems/{id}.
func (p *ProblemsAPI) Delete(ctx context.Context, problemID int) error {
	return p.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/problems/%d", problemID), nil, nil)
}
