package testing

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
)

// Recorder counts calls by method name and holds injected failures.
//
// Hook, when set, runs at the start of every call; tests use it to block a
// request until they release it.
type Recorder struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error
	Hook  func(ctx context.Context, method string)
}

func (r *Recorder) enter(ctx context.Context, method string) error {
	r.mu.Lock()
	if r.calls == nil {
		r.calls = make(map[string]int)
	}
	r.calls[method]++
	err := r.errs[method]
	hook := r.Hook
	r.mu.Unlock()

	if hook != nil {
		hook(ctx, method)
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Fail makes every later call of method return err. A nil err clears it.
func (r *Recorder) Fail(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errs == nil {
		r.errs = make(map[string]error)
	}
	if err == nil {
		delete(r.errs, method)
		return
	}
	r.errs[method] = err
}

// Calls returns how many times method was invoked.
func (r *Recorder) Calls(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

func notFound(kind string, id int) error {
	return fmt.Errorf("%w: %s %d not found", shared.ErrAPIRequest, kind, id)
}

// FakeUsers is an in-memory UserService.
type FakeUsers struct {
	Recorder
	mu      sync.Mutex
	Users   map[int]models.User
	Owned   map[int][]models.Problem
	Links   map[int][]models.Resource
	Created []models.CreateUserRequest
	Updates []models.UpdateUserRequest
	nextID  int
}

func NewFakeUsers(users ...models.User) *FakeUsers {
	f := &FakeUsers{Users: map[int]models.User{}, Owned: map[int][]models.Problem{}, Links: map[int][]models.Resource{}}
	for _, u := range users {
		f.Users[u.UserID] = u
		f.nextID = max(f.nextID, u.UserID)
	}
	return f
}

func (f *FakeUsers) Create(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := f.enter(ctx, "Create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, req)
	f.nextID++
	u := models.User{UserID: f.nextID, Username: req.Username, Email: req.Email, FirstName: req.FirstName, LastName: req.LastName}
	f.Users[u.UserID] = u
	return &u, nil
}

func (f *FakeUsers) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if err := f.enter(ctx, "Login"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.Users {
		if u.Username == req.Username && u.Email == req.Email {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid credentials", shared.ErrAPIRequest)
}

func (f *FakeUsers) Get(ctx context.Context, userID int) (*models.User, error) {
	if err := f.enter(ctx, "Get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &u, nil
}

func (f *FakeUsers) Update(ctx context.Context, userID int, req models.UpdateUserRequest) (*models.User, error) {
	if err := f.enter(ctx, "Update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.Users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	f.Updates = append(f.Updates, req)
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	f.Users[userID] = u
	return &u, nil
}

func (f *FakeUsers) Problems(ctx context.Context, userID int) ([]models.Problem, error) {
	if err := f.enter(ctx, "Problems"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Owned[userID]), nil
}

func (f *FakeUsers) Resources(ctx context.Context, userID int) ([]models.Resource, error) {
	if err := f.enter(ctx, "Resources"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.Links[userID]), nil
}

// FakeProblems is an in-memory ProblemService.
//
// Full builds the aggregate from the stored problem plus Solutions and Tags.
type FakeProblems struct {
	Recorder
	mu        sync.Mutex
	Problems  []models.Problem
	Solutions map[int][]models.Solution
	Tags      map[int][]models.Tag
	Created   []models.CreateProblemRequest
	Filters   []models.ProblemFilter
	nextID    int
}

func NewFakeProblems(problems ...models.Problem) *FakeProblems {
	f := &FakeProblems{Problems: problems, Solutions: map[int][]models.Solution{}, Tags: map[int][]models.Tag{}}
	for _, p := range problems {
		f.nextID = max(f.nextID, p.ProblemID)
	}
	return f
}

func (f *FakeProblems) find(id int) int {
	return slices.IndexFunc(f.Problems, func(p models.Problem) bool { return p.ProblemID == id })
}

func (f *FakeProblems) List(ctx context.Context, filter models.ProblemFilter) ([]models.Problem, error) {
	if err := f.enter(ctx, "List"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Filters = append(f.Filters, filter)

	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	out := []models.Problem{}
	for _, p := range f.Problems {
		if keyword != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Description), keyword) {
			continue
		}
		if filter.Type != "" && p.ProblemType != filter.Type {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *FakeProblems) Get(ctx context.Context, problemID int) (*models.ProblemWithAuthor, error) {
	if err := f.enter(ctx, "Get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(problemID)
	if i < 0 {
		return nil, notFound("problem", problemID)
	}
	p := f.Problems[i]
	return &models.ProblemWithAuthor{Problem: p, Author: models.Author{UserID: p.UserID, Username: fmt.Sprintf("user%d", p.UserID)}}, nil
}

func (f *FakeProblems) Full(ctx context.Context, problemID int) (*models.ProblemFull, error) {
	if err := f.enter(ctx, "Full"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(problemID)
	if i < 0 {
		return nil, notFound("problem", problemID)
	}
	p := f.Problems[i]
	return &models.ProblemFull{
		Problem:   models.ProblemWithAuthor{Problem: p, Author: models.Author{UserID: p.UserID, Username: fmt.Sprintf("user%d", p.UserID)}},
		Solutions: slices.Clone(f.Solutions[problemID]),
		Tags:      slices.Clone(f.Tags[problemID]),
	}, nil
}

func (f *FakeProblems) Create(ctx context.Context, req models.CreateProblemRequest) (*models.Problem, error) {
	if err := f.enter(ctx, "Create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, req)
	f.nextID++
	p := models.Problem{ProblemID: f.nextID, UserID: req.UserID, Title: req.Title, Description: req.Description, ProblemType: req.ProblemType}
	f.Problems = append(f.Problems, p)
	return &p, nil
}

func (f *FakeProblems) Update(ctx context.Context, problemID int, req models.UpdateProblemRequest) (*models.Problem, error) {
	if err := f.enter(ctx, "Update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(problemID)
	if i < 0 {
		return nil, notFound("problem", problemID)
	}
	p := &f.Problems[i]
	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ProblemType != nil {
		p.ProblemType = *req.ProblemType
	}
	if req.Resolved != nil {
		p.Resolved = *req.Resolved
	}
	out := *p
	return &out, nil
}

func (f *FakeProblems) Resolve(ctx context.Context, problemID int) (*models.Problem, error) {
	if err := f.enter(ctx, "Resolve"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(problemID)
	if i < 0 {
		return nil, notFound("problem", problemID)
	}
	f.Problems[i].Resolved = true
	out := f.Problems[i]
	return &out, nil
}

func (f *FakeProblems) Delete(ctx context.Context, problemID int) error {
	if err := f.enter(ctx, "Delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(problemID)
	if i < 0 {
		return notFound("problem", problemID)
	}
	f.Problems = slices.Delete(f.Problems, i, i+1)
	return nil
}

// FakeSolutions is an in-memory SolutionService.
type FakeSolutions struct {
	Recorder
	mu        sync.Mutex
	Solutions []models.Solution
	Created   []models.CreateSolutionRequest
	nextID    int
}

func NewFakeSolutions(solutions ...models.Solution) *FakeSolutions {
	f := &FakeSolutions{Solutions: solutions}
	for _, s := range solutions {
		f.nextID = max(f.nextID, s.SolutionID)
	}
	return f
}

func (f *FakeSolutions) find(id int) int {
	return slices.IndexFunc(f.Solutions, func(s models.Solution) bool { return s.SolutionID == id })
}

func (f *FakeSolutions) Create(ctx context.Context, problemID int, req models.CreateSolutionRequest) (*models.Solution, error) {
	if err := f.enter(ctx, "Create"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ProblemID = problemID
	f.Created = append(f.Created, req)
	f.nextID++

	version := 1
	for _, s := range f.Solutions {
		if s.ProblemID == problemID {
			version = max(version, s.VersionNumber+1)
		}
	}
	s := models.Solution{
		SolutionID:       f.nextID,
		ProblemID:        problemID,
		CodeSnippet:      req.CodeSnippet,
		Explanation:      req.Explanation,
		ApproachType:     req.ApproachType,
		ParentSolutionID: req.ParentSolutionID,
		SuccessRate:      req.SuccessRate,
		BranchType:       req.BranchType,
		VersionNumber:    version,
	}
	f.Solutions = append(f.Solutions, s)
	return &s, nil
}

func (f *FakeSolutions) ListForProblem(ctx context.Context, problemID int) ([]models.Solution, error) {
	if err := f.enter(ctx, "ListForProblem"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Solution{}
	for _, s := range f.Solutions {
		if s.ProblemID == problemID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeSolutions) Get(ctx context.Context, solutionID int) (*models.SolutionDetail, error) {
	if err := f.enter(ctx, "Get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(solutionID)
	if i < 0 {
		return nil, notFound("solution", solutionID)
	}
	detail := &models.SolutionDetail{Solution: f.Solutions[i]}
	for _, s := range f.Solutions {
		if s.ParentSolutionID != nil && *s.ParentSolutionID == solutionID {
			detail.ChildrenCount++
		}
	}
	return detail, nil
}

func (f *FakeSolutions) Update(ctx context.Context, solutionID int, req models.UpdateSolutionRequest) (*models.Solution, error) {
	if err := f.enter(ctx, "Update"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(solutionID)
	if i < 0 {
		return nil, notFound("solution", solutionID)
	}
	s := &f.Solutions[i]
	if req.CodeSnippet != nil {
		s.CodeSnippet = *req.CodeSnippet
	}
	if req.Explanation != nil {
		s.Explanation = *req.Explanation
	}
	if req.SuccessRate != nil {
		s.SuccessRate = req.SuccessRate
	}
	out := *s
	return &out, nil
}

func (f *FakeSolutions) Delete(ctx context.Context, solutionID int) error {
	if err := f.enter(ctx, "Delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(solutionID)
	if i < 0 {
		return notFound("solution", solutionID)
	}
	f.Solutions = slices.Delete(f.Solutions, i, i+1)
	return nil
}

func (f *FakeSolutions) Children(ctx context.Context, solutionID int) ([]models.Solution, error) {
	if err := f.enter(ctx, "Children"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Solution{}
	for _, s := range f.Solutions {
		if s.ParentSolutionID != nil && *s.ParentSolutionID == solutionID {
			out = append(out, s)
		}
	}
	return out, nil
}

// FakeTags is an in-memory TagService.
type FakeTags struct {
	Recorder
	Tags []models.Tag
}

func (f *FakeTags) List(ctx context.Context) ([]models.Tag, error) {
	if err := f.enter(ctx, "List"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Tags), nil
}

// FakeResources is an in-memory ResourceService. List honours keyword and min score.
type FakeResources struct {
	Recorder
	mu        sync.Mutex
	Resources []models.Resource
	Filters   []models.ResourceFilter
}

func (f *FakeResources) List(ctx context.Context, filter models.ResourceFilter) ([]models.Resource, error) {
	if err := f.enter(ctx, "List"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Filters = append(f.Filters, filter)

	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	out := []models.Resource{}
	for _, r := range f.Resources {
		if keyword != "" && !strings.Contains(strings.ToLower(r.Title+" "+r.ContentSummary), keyword) {
			continue
		}
		if filter.MinScore != nil && (r.UsefulnessScore == nil || *r.UsefulnessScore < *filter.MinScore) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *FakeResources) Get(ctx context.Context, resourceID int) (*models.ResourceDetail, error) {
	if err := f.enter(ctx, "Get"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Resources {
		if r.ResourceID == resourceID {
			return &models.ResourceDetail{Resource: r}, nil
		}
	}
	return nil, notFound("resource", resourceID)
}

func (f *FakeResources) Visit(ctx context.Context, resourceID int) (*models.Resource, error) {
	if err := f.enter(ctx, "Visit"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.Resources {
		if r.ResourceID == resourceID {
			return &r, nil
		}
	}
	return nil, notFound("resource", resourceID)
}

// FakeDashboard is an in-memory DashboardService.
type FakeDashboard struct {
	Recorder
	Dashboards map[int]models.Dashboard
}

func (f *FakeDashboard) Get(ctx context.Context, userID int) (*models.Dashboard, error) {
	if err := f.enter(ctx, "Get"); err != nil {
		return nil, err
	}
	d, ok := f.Dashboards[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &d, nil
}

func (f *FakeDashboard) Health(ctx context.Context) (*models.Health, error) {
	if err := f.enter(ctx, "Health"); err != nil {
		return nil, err
	}
	return &models.Health{Status: "ok"}, nil
}
