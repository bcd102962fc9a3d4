package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/desertthunder/solvex/internal/formatter"
	"github.com/desertthunder/solvex/internal/pages"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ProblemListView:
		return m.renderProblemList()
	case ProblemDetailView:
		return m.renderDetail()
	case CreateProblemView:
		return m.renderCreate()
	case AccountView:
		return m.renderAccount()
	case ConfirmDeleteView:
		return m.renderConfirm()
	default:
		return ""
	}
}

// statusLine renders the loading indicator, the error banner and the last notice.
func (m *Model) statusLine(status pages.Status, banner string) string {
	var lines []string
	switch status {
	case pages.StatusLoading:
		lines = append(lines, styles.help.Render("Loading…"))
	case pages.StatusMutating:
		lines = append(lines, styles.help.Render("Saving…"))
	}
	if banner != "" {
		lines = append(lines, styles.err.Render("Error: "+banner))
	}
	if m.notice != "" {
		lines = append(lines, styles.ok.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderProblemList() string {
	var b strings.Builder
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	if line := m.statusLine(m.problems.Status(), m.problems.Banner()); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.problemList.Items()) == 0 && m.problems.Status() == pages.StatusReady {
		b.WriteString(styles.help.Render("No problems found."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.problemList.View())
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.search, m.keys.create, m.keys.account, m.keys.quit}
	if m.searching {
		helpKeys = []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter/esc", "done"))}
	}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	data := m.detail.Data()
	status := m.statusLine(m.detail.Status(), m.detail.Banner())
	helpKeys := []key.Binding{m.keys.back, m.keys.refresh, m.keys.quit}

	if data == nil {
		if status == "" {
			status = styles.help.Render("Nothing loaded.")
		}
		return fmt.Sprintf("%s\n\n%s", status, m.help.ShortHelpView(helpKeys))
	}

	var b strings.Builder
	p := data.Problem
	b.WriteString(styles.title.Render(p.Title))
	b.WriteString("\n")
	b.WriteString(badge(p.Resolved))
	if author := p.Author.Username; author != "" {
		b.WriteString(styles.help.Render("  by " + author))
	}
	b.WriteString("\n\n")

	if body, err := formatter.ProblemToText(data); err == nil {
		b.Write(body)
	}
	if len(data.Tags) > 0 {
		names := make([]string, len(data.Tags))
		for i, t := range data.Tags {
			names[i] = t.TagName
		}
		b.WriteString(styles.label.Render("Tags: "))
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	if status != "" {
		b.WriteString("\n")
		b.WriteString(status)
		b.WriteString("\n")
	}

	if m.detail.CanResolve() {
		helpKeys = append([]key.Binding{m.keys.resolve}, helpKeys...)
	}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderCreate() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("New problem"))
	b.WriteString("\n")

	for i, in := range m.form.inputs {
		label := m.form.labels[i]
		if i == m.form.focus {
			b.WriteString(styles.ok.Render("> " + label))
		} else {
			b.WriteString(styles.label.Render("  " + label))
		}
		b.WriteString("\n  ")
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	if tags := m.create.Tags(); len(tags) > 0 {
		choices := make([]string, len(tags))
		for i, t := range tags {
			choices[i] = fmt.Sprintf("%d=%s", t.TagID, t.TagName)
		}
		b.WriteString(styles.help.Render("Tags: " + strings.Join(choices, " ")))
		b.WriteString("\n")
	}
	if m.authorErr != nil {
		b.WriteString(styles.warn.Render("Sign in with `solvex auth login` before creating problems."))
		b.WriteString("\n")
	}
	if line := m.statusLine(m.create.Status(), m.create.Banner()); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}

	helpKeys := []key.Binding{
		m.keys.next,
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		m.keys.back,
	}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderAccount() string {
	var b strings.Builder
	if user := m.account.User(); user != nil {
		b.WriteString(styles.title.Render(user.DisplayName()))
		b.WriteString("\n")
		b.WriteString(styles.help.Render(user.Email))
		b.WriteString("\n\n")
	}
	if line := m.statusLine(m.account.Status(), m.account.Banner()); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.ownedList.View())

	helpKeys := []key.Binding{m.keys.enter, m.keys.remove, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Delete %q?", m.target.Title))
	warning := styles.warn.Render("This cannot be undone.")
	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n\n%s", title, warning, m.help.ShortHelpView(helpKeys))
}
