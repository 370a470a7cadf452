package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/evotodo/internal/board"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/panel"
	"github.com/idilsaglam/evotodo/internal/ui"
)

// listItem adapts board.Item to bubbles/list.Item
type listItem struct{ board.Item }

func (i listItem) FilterValue() string { return i.Title }

func toListItems(items []board.Item) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, it := range items {
		out = append(out, listItem{it})
	}
	return out
}

// itemDelegate renders one item per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	fmt.Fprintln(w, renderLine(it.Item, index == m.Index()))
}

func renderLine(it board.Item, selected bool) string {
	th := ui.Current()
	box := th.Muted.Render(th.BoxUnchecked)
	title := ui.Truncate(it.Title, 60)
	if it.Completed {
		box = th.Success.Render(th.BoxChecked)
		title = th.Done.Render(title)
	}

	meta := []string{string(it.Kind())}
	if it.Kind() == model.KindTask {
		if it.Status == model.StatusInProgress {
			meta = append(meta, string(it.Status))
		}
		if it.Priority != "" {
			meta = append(meta, string(it.Priority))
		}
	}
	meta = append(meta, "due "+it.DueLabel())

	desc := ui.Truncate(it.DescriptionOr(board.NoDescription), 40)
	line := fmt.Sprintf("%s %s  %s  %s", box, title, th.Badge.Render(strings.Join(meta, " · ")), th.Muted.Render(desc))

	prefix := "  "
	if selected {
		prefix = th.Selected.Render(">") + " "
	}
	return prefix + line
}

func newList(keys keyMap) list.Model {
	th := ui.Current()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = th.Title
	l.Styles.HelpStyle = th.Help
	l.Styles.PaginationStyle = th.Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	l.AdditionalShortHelpKeys = keys.listHelp
	l.AdditionalFullHelpKeys = keys.listHelp
	// q is ours
	l.KeyMap.Quit = key.NewBinding(key.WithDisabled())
	return l
}

func stats(items []board.Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// retitle puts the live counts in the list header.
func (m *Model) retitle() {
	th := ui.Current()
	items := m.state.Items()
	dn, pn := stats(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), dn,
		th.Pending.Render(th.SymPending), pn,
		th.Accent.Render("Total"), len(items),
	)
}

func (m *Model) resize() {
	if m.width == 0 && m.height == 0 {
		return
	}
	h := m.height - 4
	if m.mode != modeList {
		h -= 8
	}
	if h < 5 {
		h = 5
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	th := ui.Current()
	var parts []string

	switch {
	case m.loading && m.state.Len() == 0:
		parts = append(parts, th.Muted.Render("Loading..."))
	case m.mode == modePanel:
		parts = append(parts, m.panelView())
		if m.panel.ViewMode || m.panel.State() == panel.ActionSelected {
			parts = append(parts, m.list.View())
		}
	default:
		parts = append(parts, m.list.View())
	}

	switch m.mode {
	case modeEdit:
		parts = append(parts, m.form.view("Edit item"))
	case modeAdd:
		parts = append(parts, m.form.view("Add new item"))
	}

	for _, w := range m.warnings {
		parts = append(parts, th.Pending.Render("! "+w))
	}
	if m.notice != "" {
		parts = append(parts, th.Success.Render(th.SymDone+" "+m.notice))
	}
	if m.modal != "" {
		parts = append(parts, ui.Frame([]string{
			th.Error.Render(m.modal),
			th.Help.Render("press enter to continue"),
		}))
	}
	return ui.Frame([]string{strings.Join(parts, "\n")})
}

func (m Model) panelView() string {
	th := ui.Current()
	if m.panel.State() == panel.MenuOpen {
		lines := []string{th.Title.Render("Actions")}
		for i, a := range panel.Actions {
			prefix := "  "
			label := a.Label()
			if i == m.menu {
				prefix = th.Selected.Render(">") + " "
				label = th.Accent.Render(label)
			}
			lines = append(lines, prefix+label)
		}
		lines = append(lines, th.Help.Render("↑/↓ move · enter choose · esc close"))
		return ui.Frame(lines)
	}

	a := m.panel.Action()
	lines := []string{th.Title.Render(a.Label())}
	if a.NeedsTarget() {
		target := th.Muted.Render("none")
		if ref, ok := m.panel.Selected(); ok {
			target = ref.String()
			if it, found := m.state.Find(ref); found {
				target = it.Title + " (" + ref.String() + ")"
			}
		}
		lines = append(lines, "Selected: "+target)
		lines = append(lines, th.Help.Render("↑/↓ move · ctrl+s select · enter confirm · esc back"))
	} else {
		lines = append(lines, th.Help.Render("enter confirm · esc back"))
	}
	out := ui.Frame(lines)
	if a == panel.ActionUpdate && len(m.form.inputs) > 0 {
		out += "\n" + m.form.view("Fields to change")
	}
	return out
}
