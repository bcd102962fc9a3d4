package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/pages"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldType
	fieldTags
)

// problemForm holds the text inputs of [CreateProblemView].
type problemForm struct {
	inputs []textinput.Model
	labels []string
	focus  int
}

func newProblemForm() problemForm {
	labels := []string{"Title", "Description", "Type", "Tag IDs"}
	placeholders := []string{"Short summary", "What is going wrong?", "bug, algorithm, ...", "1,3"}

	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.CharLimit = 500
		inputs[i] = in
	}
	inputs[fieldTitle].CharLimit = 200
	return problemForm{inputs: inputs, labels: labels}
}

func (f *problemForm) focusFirst() tea.Cmd {
	f.focus = fieldTitle
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[fieldTitle].Focus()
}

// cycle moves focus to the next field, or the previous one when back is set.
func (f *problemForm) cycle(back bool) tea.Cmd {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	if back {
		f.focus = (f.focus + n - 1) % n
	} else {
		f.focus = (f.focus + 1) % n
	}
	return f.inputs[f.focus].Focus()
}

func (f *problemForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// set replaces the value of one field.
func (f *problemForm) set(field int, value string) {
	f.inputs[field].SetValue(value)
}

// value converts the inputs into a [pages.ProblemForm] authored by user.
//
// Tag ids that are not numbers become 0 so the form validation reports them.
func (f problemForm) value(user *models.User) pages.ProblemForm {
	form := pages.ProblemForm{
		Title:       f.inputs[fieldTitle].Value(),
		Description: f.inputs[fieldDescription].Value(),
		ProblemType: f.inputs[fieldType].Value(),
	}
	if user != nil {
		form.UserID = strconv.Itoa(user.UserID)
	}
	for _, raw := range strings.Split(f.inputs[fieldTags].Value(), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			id = 0
		}
		form.TagIDs = append(form.TagIDs, id)
	}
	return form
}
