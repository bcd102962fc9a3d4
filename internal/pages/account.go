package pages

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// Account is the signed-in user's profile and authored problems.
type Account struct {
	view
	users    services.UserService
	problems services.ProblemService
	sessions repositories.SessionStore
	confirm  Confirmer
	user     *models.User
	list     ProblemListState
	form     ProfileForm
	editing  bool
}

// NewAccount builds the account view. A nil confirm declines every delete.
func NewAccount(users services.UserService, problems services.ProblemService, sessions repositories.SessionStore, confirm Confirmer) *Account {
	return &Account{users: users, problems: problems, sessions: sessions, confirm: confirm}
}

// Load reads the session, then fetches the fresh user and their problems in parallel.
// Either failure fails the load. A successful load refreshes the stored session.
func (a *Account) Load(ctx context.Context) error {
	tok := a.start()

	session, err := CurrentUser(ctx, a.sessions)
	if err != nil {
		if a.finish(tok) {
			a.fail(err)
			a.mu.Unlock()
		}
		return err
	}

	var (
		user  *models.User
		owned []models.Problem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := a.users.Get(gctx, session.UserID)
		user = u
		return err
	})
	g.Go(func() error {
		ps, err := a.users.Problems(gctx, session.UserID)
		owned = ps
		return err
	})
	err = g.Wait()

	if !a.finish(tok) {
		return ErrStale
	}
	defer a.mu.Unlock()

	if err == nil {
		if serr := a.sessions.Save(ctx, user); serr != nil {
			err = fmt.Errorf("failed to refresh session: %w", serr)
		}
	}
	if err != nil {
		a.fail(err)
		return err
	}
	a.user = user
	a.list = Reduce(a.list, Loaded{Items: owned})
	if !a.editing {
		a.form = profileFormFrom(user)
	}
	a.status = StatusReady
	return nil
}

// BeginEdit copies the loaded profile into the form.
func (a *Account) BeginEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form = profileFormFrom(a.user)
	a.editing = true
}

// CancelEdit reverts the form to the loaded profile.
func (a *Account) CancelEdit() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form = profileFormFrom(a.user)
	a.editing = false
}

// SetForm replaces the profile input.
func (a *Account) SetForm(form ProfileForm) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.form = form
}

// Save validates and sends the profile, then stores the updated session and leaves edit mode.
func (a *Account) Save(ctx context.Context) error {
	a.mu.Lock()
	if a.user == nil {
		a.mu.Unlock()
		return shared.ErrNotAuthenticated
	}
	form := a.form.trimmed()
	userID := a.user.UserID
	a.mu.Unlock()

	if err := validateForm(form); err != nil {
		return a.reject(err)
	}

	tok, err := a.begin()
	if err != nil {
		return err
	}

	user, err := a.users.Update(ctx, userID, form.request())
	if err == nil {
		if serr := a.sessions.Save(ctx, user); serr != nil {
			err = fmt.Errorf("failed to save session: %w", serr)
		}
	}

	if !a.finish(tok) {
		return err
	}
	defer a.mu.Unlock()

	if err != nil {
		a.fail(err)
		return err
	}
	a.user = user
	a.form = profileFormFrom(user)
	a.editing = false
	a.status = StatusReady
	return nil
}

// DeleteProblem asks for confirmation, then deletes the problem.
//
// A declined prompt returns [shared.ErrCancelled] without a request. The
// problem leaves the list only after the delete succeeds; a failure sets
// the banner and leaves the list as it was.
func (a *Account) DeleteProblem(ctx context.Context, problemID int) error {
	a.mu.Lock()
	title := fmt.Sprintf("problem %d", problemID)
	for _, p := range a.list.Items {
		if p.ProblemID == problemID {
			title = fmt.Sprintf("%q", p.Title)
		}
	}
	pending := a.list.Pending[problemID]
	a.mu.Unlock()

	if pending {
		return ErrBusy
	}

	if a.confirm == nil {
		return shared.ErrCancelled
	}
	ok, err := a.confirm.Confirm(ctx, fmt.Sprintf("Delete %s? This cannot be undone.", title))
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrCancelled
	}

	a.apply(DeleteRequested{ID: problemID})
	if err := a.problems.Delete(ctx, problemID); err != nil {
		a.apply(DeleteFailed{ID: problemID, Err: err})
		return err
	}
	a.apply(DeleteSucceeded{ID: problemID})
	return nil
}

// Insert puts a newly created problem at the head of the list.
func (a *Account) Insert(problem models.Problem) {
	a.apply(Inserted{Problem: problem})
}

// apply reduces e into the list and derives the status from what is left in flight.
func (a *Account) apply(e ListEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.list = Reduce(a.list, e)
	a.banner = a.list.Banner

	switch {
	case len(a.list.Pending) > 0:
		a.status = StatusMutating
	case a.list.Banner != "":
		a.status = StatusError
	default:
		a.status = StatusReady
	}
}

// User returns the loaded user, or nil.
func (a *Account) User() *models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

// Problems returns a copy of the list state.
func (a *Account) Problems() ProblemListState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.list.Clone()
}

// Form returns the profile input and whether edit mode is on.
func (a *Account) Form() (ProfileForm, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.form, a.editing
}

// Owns reports whether problemID is listed.
func (a *Account) Owns(problemID int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.ContainsFunc(a.list.Items, func(p models.Problem) bool { return p.ProblemID == problemID })
}
