package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/solvex/internal/models"
)

// SolutionsAPI implements [SolutionService].
type SolutionsAPI struct {
	client *Client
}

func NewSolutionsAPI(c *Client) *SolutionsAPI { return &SolutionsAPI{client: c} }

// Create appends a solution to a problem. req.ProblemID is set from problemID.
//
// Calls POST /problems/{id}/solutions.
func (s *SolutionsAPI) Create(ctx context.Context, problemID int, req models.CreateSolutionRequest) (*models.Solution, error) {
	req.ProblemID = problemID

	var solution models.Solution
	if err := s.client.Do(ctx, http.MethodPost, fmt.Sprintf("/problems/%d/solutions", problemID), req, &solution); err != nil {
		return nil, err
	}
	return &solution, nil
}

// ListForProblem calls GET /problems/{id}/solutions.
func (s *SolutionsAPI) ListForProblem(ctx context.Context, problemID int) ([]models.Solution, error) {
	return getList[models.Solution](ctx, s.client, fmt.Sprintf("/problems/%d/solutions", problemID))
}

// Get calls GET /solutions/{id}.
func (s *SolutionsAPI) Get(ctx context.Context, solutionID int) (*models.SolutionDetail, error) {
	var detail models.SolutionDetail
	if err := s.client.Do(ctx, http.MethodGet, fmt.Sprintf("/solutions/%d", solutionID), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Update calls PATCH /solutions/{id}.
func (s *SolutionsAPI) Update(ctx context.Context, solutionID int, req models.UpdateSolutionRequest) (*models.Solution, error) {
	var solution models.Solution
	if err := s.client.Do(ctx, http.MethodPatch, fmt.Sprintf("/solutions/%d", solutionID), req, &solution); err != nil {
		return nil, err
	}
	return &solution, nil
}

// Delete calls DELETE /solutions/{id}.
func (s *SolutionsAPI) Delete(ctx context.Context, solutionID int) error {
	return s.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/solutions/%d", solutionID), nil, nil)
}

// Children lists the solutions branched from solutionID.
//
// Calls GET /solutions/{id}/children.
func (s *SolutionsAPI) Children(ctx context.Context, solutionID int) ([]models.Solution, error) {
	return getList[models.Solution](ctx, s.client, fmt.Sprintf("/solutions/%d/children", solutionID))
}
