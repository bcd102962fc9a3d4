package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/models"
)

var (
	_ list.Item = problemItem{}
)

// problemItem wraps [models.Problem] to implement [list.Item].
type problemItem struct {
	problem models.Problem
	pending bool
}

func (i problemItem) FilterValue() string { return i.problem.Title }
func (i problemItem) Title() string       { return i.problem.Title }
func (i problemItem) Description() string {
	parts := []string{formatter.StatusLabel(i.problem.Resolved)}
	if i.problem.ProblemType != "" {
		parts = append(parts, i.problem.ProblemType)
	}
	if date := i.problem.CreatedAt.Date(); date != "" {
		parts = append(parts, date)
	}
	if i.pending {
		parts = append(parts, "deleting…")
	}
	return strings.Join(parts, " • ")
}

func problemItems(problems []models.Problem, pending map[int]bool) []list.Item {
	items := make([]list.Item, len(problems))
	for i, p := range problems {
		items[i] = problemItem{problem: p, pending: pending[p.ProblemID]}
	}
	return items
}

func newProblemList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func selectedProblem(l list.Model) (models.Problem, bool) {
	item, ok := l.SelectedItem().(problemItem)
	if !ok {
		return models.Problem{}, false
	}
	return item.problem, true
}
