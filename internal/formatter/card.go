package formatter

import (
	"strings"

	"github.com/fatih/color"

	"github.com/desertthunder/solvex/internal/models"
)

// ExcerptLength is the rune limit for descriptions shown on a card.
const ExcerptLength = 120

var (
	titleStyle    = color.New(color.Bold)
	resolvedStyle = color.New(color.FgGreen)
	openStyle     = color.New(color.FgYellow)
	typeStyle     = color.New(color.FgCyan)
	dimStyle      = color.New(color.Faint)
)

// Badge renders the resolved state.
func Badge(resolved bool) string {
	if resolved {
		return resolvedStyle.Sprint("✓ resolved")
	}
	return openStyle.Sprint("○ open")
}

// ProblemCard renders a problem summary with its title, excerpt, badges, date and action labels.
//
// Actions are labels supplied by the caller, e.g. the key bindings a view offers.
func ProblemCard(p models.Problem, actions ...string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Sprint(p.Title))
	b.WriteString("  ")
	b.WriteString(Badge(p.Resolved))
	if p.ProblemType != "" {
		b.WriteString(" ")
		b.WriteString(typeStyle.Sprintf("[%s]", p.ProblemType))
	}
	b.WriteString("\n")

	if desc := strings.Join(strings.Fields(p.Description), " "); desc != "" {
		b.WriteString("  ")
		b.WriteString(models.Truncate(desc, ExcerptLength))
		b.WriteString("\n")
	}

	var footer []string
	if date := p.CreatedAt.Date(); date != "" {
		footer = append(footer, date)
	}
	footer = append(footer, actions...)
	if len(footer) > 0 {
		b.WriteString("  ")
		b.WriteString(dimStyle.Sprint(strings.Join(footer, " · ")))
		b.WriteString("\n")
	}

	return b.String()
}
