package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/pages"
)

func (m *Model) loadProblems() tea.Cmd {
	filter := models.ProblemFilter{Keyword: m.search.Value()}
	return func() tea.Msg {
		return doneMsg(MsgProblemsLoaded, m.problems.Load(m.ctx, filter))
	}
}

func (m *Model) searchProblems(keyword string) tea.Cmd {
	return func() tea.Msg {
		return doneMsg(MsgProblemsLoaded, m.problems.SetKeyword(m.ctx, keyword))
	}
}

func (m *Model) loadDetail(problemID int) tea.Cmd {
	return func() tea.Msg {
		return doneMsg(MsgDetailLoaded, m.detail.Load(m.ctx, problemID))
	}
}

func (m *Model) resolveProblem() tea.Cmd {
	return func() tea.Msg {
		return doneMsg(MsgResolved, m.detail.Resolve(m.ctx))
	}
}

func (m *Model) loadAccount() tea.Cmd {
	return func() tea.Msg {
		return doneMsg(MsgAccountLoaded, m.account.Load(m.ctx))
	}
}

func (m *Model) deleteProblem(problemID int) tea.Cmd {
	return func() tea.Msg {
		return doneMsg(MsgProblemDeleted, m.account.DeleteProblem(m.ctx, problemID))
	}
}

// openCreateForm resolves the author from the session and loads the tag choices.
func (m *Model) openCreateForm() tea.Cmd {
	return func() tea.Msg {
		user, err := pages.CurrentUser(m.ctx, m.sessions)
		if err != nil {
			return createOpenedMsg(nil, err)
		}
		return createOpenedMsg(user, m.create.Open(m.ctx))
	}
}

func (m *Model) submitProblem() tea.Cmd {
	form := m.form.value(m.author)
	m.create.SetForm(form)
	return func() tea.Msg {
		return problemCreatedMsg(m.create.Submit(m.ctx))
	}
}
