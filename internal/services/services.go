// package services maps each SolveX API resource to typed operations over [Client]
package services

import (
	"context"

	"github.com/desertthunder/solvex/internal/models"
)

// UserService covers the /users resource.
type UserService interface {
	Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Get(ctx context.Context, userID int) (*models.User, error)
	Update(ctx context.Context, userID int, req models.UpdateUserRequest) (*models.User, error)
	Problems(ctx context.Context, userID int) ([]models.Problem, error)
	Resources(ctx context.Context, userID int) ([]models.Resource, error)
}

// ProblemService covers the /problems resource.
type ProblemService interface {
	List(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, error)
	Get(ctx context.Context, problemID int) (*models.ProblemWithAuthor, error)
	Full(ctx context.Context, problemID int) (*models.ProblemFull, error)
	Create(ctx context.Context, req models.CreateProblemRequest) (*models.Problem, error)
	Update(ctx context.Context, problemID int, req models.UpdateProblemRequest) (*models.Problem, error)
	Resolve(ctx context.Context, problemID int) (*models.Problem, error)
	Delete(ctx context.Context, problemID int) error
}

// SolutionService covers solutions, both nested under problems and top level.
type SolutionService interface {
	Create(ctx context.Context, problemID int, req models.CreateSolutionRequest) (*models.Solution, error)
	ListForProblem(ctx context.Context, problemID int) ([]models.Solution, error)
	Get(ctx context.Context, solutionID int) (*models.SolutionDetail, error)
	Update(ctx context.Context, solutionID int, req models.UpdateSolutionRequest) (*models.Solution, error)
	Delete(ctx context.Context, solutionID int) error
	Children(ctx context.Context, solutionID int) ([]models.Solution, error)
}

// TagService covers the /tags resource.
type TagService interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// ResourceService covers the /resources resource.
type ResourceService interface {
	List(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error)
	Get(ctx context.Context, resourceID int) (*models.ResourceDetail, error)
	Visit(ctx context.Context, resourceID int) (*models.Resource, error)
}

// DashboardService covers the per-user dashboard and the health probe.
type DashboardService interface {
	Get(ctx context.Context, userID int) (*models.Dashboard, error)
	Health(ctx context.Context) (*models.Health, error)
}

// API bundles every resource module over one [Client].
type API struct {
	Client    *Client
	Users     UserService
	Problems  ProblemService
	Solutions SolutionService
	Tags      TagService
	Resources ResourceService
	Dashboard DashboardService
}

// New wires every resource module to c.
func New(c *Client) *API {
	return &API{
		Client:    c,
		Users:     NewUsersAPI(c),
		Problems:  NewProblemsAPI(c),
		Solutions: NewSolutionsAPI(c),
		Tags:      NewTagsAPI(c),
		Resources: NewResourcesAPI(c),
		Dashboard: NewDashboardAPI(c),
	}
}
