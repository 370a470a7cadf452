package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/evotodo/internal/board"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/panel"
	"github.com/idilsaglam/evotodo/internal/ui"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
)

var errBadDue = errors.New("due date must look like 2025-01-31")

// form is a small stack of single-line inputs, optionally followed by a
// completed checkbox.
type form struct {
	inputs    []textinput.Model
	focus     int
	withDone  bool
	completed bool
	err       string
}

func newForm(withDone bool) form {
	placeholders := []string{"Title", "Description", "Due date (YYYY-MM-DD)"}
	f := form{withDone: withDone}
	for _, p := range placeholders {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = p
		ti.CharLimit = 200
		f.inputs = append(f.inputs, ti)
	}
	return f
}

func (f *form) seed(d board.Draft) {
	f.inputs[fieldTitle].SetValue(d.Title)
	f.inputs[fieldDescription].SetValue(d.Description)
	f.inputs[fieldDue].SetValue(d.DueDate.DateString())
	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
	f.completed = d.Completed
}

func (f *form) fields() int {
	if f.withDone {
		return len(f.inputs) + 1
	}
	return len(f.inputs)
}

// focusAt moves focus to field i, wrapping around.
func (f *form) focusAt(i int) tea.Cmd {
	n := f.fields()
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *form) onCheckbox() bool { return f.withDone && f.focus == len(f.inputs) }

func (f *form) update(msg tea.Msg) tea.Cmd {
	if f.onCheckbox() {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == " " {
			f.completed = !f.completed
		}
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

func (f *form) draft() (board.Draft, error) {
	d := board.Draft{
		Title:       f.value(fieldTitle),
		Description: f.value(fieldDescription),
		Completed:   f.completed,
	}
	if s := f.value(fieldDue); s != "" {
		t, err := model.ParseTime(s)
		if err != nil {
			return board.Draft{}, errBadDue
		}
		d.DueDate = &t
	}
	return d, nil
}

func (f *form) panelForm() panel.Form {
	return panel.Form{
		Title:       f.value(fieldTitle),
		Description: f.value(fieldDescription),
		DueDate:     f.value(fieldDue),
	}
}

func (f *form) view(heading string) string {
	th := ui.Current()
	head := th.Title.Render(heading)
	if f.err != "" {
		head += "  " + th.Error.Render(f.err)
	}
	lines := []string{head}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	if f.withDone {
		box := th.BoxUnchecked
		if f.completed {
			box = th.BoxChecked
		}
		marker := "  "
		if f.onCheckbox() {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s completed", marker, box))
	}
	return ui.Frame(lines)
}
