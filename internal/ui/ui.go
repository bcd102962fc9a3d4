package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/pages"
	"github.com/desertthunder/solvex/internal/repositories"
	"github.com/desertthunder/solvex/internal/services"
	"github.com/desertthunder/solvex/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProblemListView ViewState = iota
	ProblemDetailView
	CreateProblemView
	AccountView
	ConfirmDeleteView
)

func (v ViewState) String() string {
	switch v {
	case ProblemListView:
		return "problems"
	case ProblemDetailView:
		return "detail"
	case CreateProblemView:
		return "create"
	case AccountView:
		return "account"
	case ConfirmDeleteView:
		return "confirm"
	default:
		return "unknown"
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	logger   *log.Logger
	sessions repositories.SessionStore

	problems *pages.ProblemList
	detail   *pages.ProblemDetail
	account  *pages.Account
	create   *pages.CreateProblem

	width       int
	height      int
	problemList list.Model
	ownedList   list.Model
	search      textinput.Model
	searching   bool
	form        problemForm
	author      *models.User
	authorErr   error
	target      models.Problem
	returnTo    ViewState
	notice      string
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model over api.
//
// Deletes are confirmed by [ConfirmDeleteView], so the account page is built with [pages.AlwaysConfirm].
func NewModel(ctx context.Context, api *services.API, sessions repositories.SessionStore, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search problems"

	return &Model{
		ctx:         ctx,
		view:        ProblemListView,
		logger:      logger,
		sessions:    sessions,
		problems:    pages.NewProblemList(api.Problems),
		detail:      pages.NewProblemDetail(api.Problems),
		account:     pages.NewAccount(api.Users, api.Problems, sessions, pages.AlwaysConfirm),
		create:      pages.NewCreateProblem(api.Problems, api.Tags),
		problemList: newProblemList("Problems"),
		ownedList:   newProblemList("My problems"),
		search:      search,
		form:        newProblemForm(),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init fetches the unfiltered problem list.
func (m *Model) Init() tea.Cmd {
	return m.loadProblems()
}

// State reports which view is active.
func (m *Model) State() ViewState { return m.view }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.problemList.SetSize(msg.Width-4, msg.Height-10)
		m.ownedList.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProblemListView:
			return m.handleProblemListKeys(msg)
		case ProblemDetailView:
			return m.handleDetailKeys(msg)
		case CreateProblemView:
			return m.handleCreateKeys(msg)
		case AccountView:
			return m.handleAccountKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	err := msg.Err()
	if errors.Is(err, pages.ErrStale) {
		m.logger.Debug("discarded stale response", "kind", msg.kind)
		return m, nil
	}
	if err != nil {
		m.logger.Error("request failed", "kind", msg.kind, "error", err)
	}

	switch msg.kind {
	case MsgProblemsLoaded:
		m.problemList.SetItems(problemItems(m.problems.Items(), nil))

	case MsgResolved:
		if err == nil {
			m.notice = "Marked as resolved"
		}

	case MsgAccountLoaded:
		m.syncOwned()

	case MsgProblemDeleted:
		m.syncOwned()
		switch {
		case err == nil:
			m.notice = fmt.Sprintf("Deleted %q", m.target.Title)
			return m, m.loadProblems()
		case errors.Is(err, shared.ErrCancelled):
			m.notice = "Delete cancelled"
		}

	case MsgCreateOpened:
		data := msg.data.(struct {
			user *models.User
			err  error
		})
		m.author = data.user
		m.authorErr = nil
		if errors.Is(data.err, shared.ErrNotAuthenticated) {
			m.authorErr = data.err
		}

	case MsgProblemCreated:
		data := msg.data.(struct {
			problem *models.Problem
			err     error
		})
		if data.err != nil {
			return m, nil
		}
		m.notice = fmt.Sprintf("Created #%d %s", data.problem.ProblemID, data.problem.Title)
		if m.account.User() != nil {
			m.account.Insert(*data.problem)
			m.syncOwned()
		}
		m.form = newProblemForm()
		m.view = ProblemListView
		return m, m.loadProblems()
	}
	return m, nil
}

func (m *Model) handleProblemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		return m.handleSearchKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.enter):
		if p, ok := selectedProblem(m.problemList); ok {
			return m.openDetail(p, ProblemListView)
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m.openCreate()
	case key.Matches(msg, m.keys.account):
		m.notice = ""
		m.view = AccountView
		return m, m.loadAccount()
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadProblems()
	}

	var cmd tea.Cmd
	m.problemList, cmd = m.problemList.Update(msg)
	return m, cmd
}

// handleSearchKeys feeds the search box; every change of its value re-fetches the list.
func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.searchProblems(m.search.Value()))
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.detail.Close()
		m.notice = ""
		m.view = m.returnTo
		return m, nil
	case key.Matches(msg, m.keys.resolve):
		if !m.detail.CanResolve() {
			return m, nil
		}
		return m, m.resolveProblem()
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadDetail(m.detail.ID())
	}
	return m, nil
}

func (m *Model) handleAccountKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.account.Close()
		m.notice = ""
		m.view = ProblemListView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if p, ok := selectedProblem(m.ownedList); ok {
			return m.openDetail(p, AccountView)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		p, ok := selectedProblem(m.ownedList)
		if !ok || m.account.Problems().Pending[p.ProblemID] {
			return m, nil
		}
		m.target = p
		m.view = ConfirmDeleteView
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.loadAccount()
	}

	var cmd tea.Cmd
	m.ownedList, cmd = m.ownedList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = AccountView
		return m, m.deleteProblem(m.target.ProblemID)
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.notice = "Delete cancelled"
		m.view = AccountView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.create.Close()
		m.view = ProblemListView
		return m, nil
	case tea.KeyTab, tea.KeyShiftTab:
		return m, m.form.cycle(msg.Type == tea.KeyShiftTab)
	case tea.KeyEnter:
		if m.create.Status() == pages.StatusMutating {
			return m, nil
		}
		return m, m.submitProblem()
	}
	return m, m.form.update(msg)
}

func (m *Model) openDetail(p models.Problem, from ViewState) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.returnTo = from
	m.view = ProblemDetailView
	return m, m.loadDetail(p.ProblemID)
}

func (m *Model) openCreate() (tea.Model, tea.Cmd) {
	m.notice = ""
	m.view = CreateProblemView
	return m, tea.Batch(m.form.focusFirst(), m.openCreateForm())
}

// syncOwned copies the account list, including pending deletes, into the list widget.
func (m *Model) syncOwned() {
	state := m.account.Problems()
	m.ownedList.SetItems(problemItems(state.Items, state.Pending))
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ProblemListView:
		if m.searching {
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		m.problemList, cmd = m.problemList.Update(msg)
	case AccountView:
		m.ownedList, cmd = m.ownedList.Update(msg)
	case CreateProblemView:
		cmd = m.form.update(msg)
	}
	return m, cmd
}
