// Package tui is the interactive dashboard: one list of todos and tasks,
// inline editing, an add form and the action panel. All state changes
// happen in Update; network calls run as commands and report back as
// messages.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/board"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/panel"
	"github.com/idilsaglam/evotodo/internal/session"
)

// ErrSignedOut is returned by Run when no token is stored.
var ErrSignedOut = errors.New("not signed in")

// MsgSignInFirst is shown instead of the dashboard when signed out.
const MsgSignInFirst = "Signin First then you'll able to see the Dashboard"

type Options struct {
	Lister    board.Lister
	Mutator   *board.Mutator
	Session   session.Store
	Navigator api.Navigator
	// NoticeDuration is how long success notices stay up.
	NoticeDuration time.Duration
}

type mode int

const (
	modeList mode = iota
	modeEdit
	modeAdd
	modePanel
)

// messages

type loadedMsg struct{ state *board.State }

type changedMsg struct{ change board.Change }

type failedMsg struct {
	action string
	err    error
}

type clearNoticeMsg struct{ id int }

type exitedMsg struct{ err error }

// NavigateMsg tells the dashboard the session moved the user elsewhere.
type NavigateMsg struct{ Dest api.Destination }

type Model struct {
	ctx       context.Context
	lister    board.Lister
	mut       *board.Mutator
	session   session.Store
	nav       api.Navigator
	noticeFor time.Duration

	keys  keyMap
	state *board.State
	list  list.Model
	mode  mode
	form  form

	editRef model.Ref
	panel   *panel.Panel
	menu    int

	notice   string
	noticeID int
	modal    string
	warnings []string
	loading  bool

	dest          api.Destination
	width, height int
}

func New(ctx context.Context, opts Options) Model {
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = 3 * time.Second
	}
	if opts.Navigator == nil {
		opts.Navigator = api.NavigatorFunc(func(api.Destination) {})
	}
	keys := defaultKeys()
	m := Model{
		ctx:       ctx,
		lister:    opts.Lister,
		mut:       opts.Mutator,
		session:   opts.Session,
		nav:       opts.Navigator,
		noticeFor: opts.NoticeDuration,
		keys:      keys,
		state:     &board.State{},
		list:      newList(keys),
		panel:     panel.New(),
		loading:   true,
	}
	m.retitle()
	return m
}

// Dest is where the user was sent when the dashboard ended, if anywhere.
func (m Model) Dest() api.Destination { return m.dest }

func (m Model) Init() tea.Cmd { return m.load() }

func (m Model) load() tea.Cmd {
	ctx, l := m.ctx, m.lister
	return func() tea.Msg { return loadedMsg{state: board.Load(ctx, l)} }
}

func (m Model) mutate(action string, fn func(context.Context) (board.Change, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		c, err := fn(ctx)
		if err != nil {
			return failedMsg{action: action, err: err}
		}
		return changedMsg{change: c}
	}
}

func (m *Model) flash(text string) tea.Cmd {
	m.notice = text
	m.noticeID++
	id := m.noticeID
	return tea.Tick(m.noticeFor, func(time.Time) tea.Msg { return clearNoticeMsg{id: id} })
}

func (m *Model) refresh() tea.Cmd {
	cmd := m.list.SetItems(toListItems(m.state.Items()))
	m.retitle()
	return cmd
}

func (m Model) selected() (board.Item, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return board.Item{}, false
	}
	return li.Item, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case NavigateMsg:
		m.dest = msg.Dest
		return m, tea.Quit

	case exitedMsg:
		m.dest = api.DestSignUp
		return m, tea.Quit

	case loadedMsg:
		m.loading = false
		if msg.state.Unauthorized() {
			m.dest = api.DestSignIn
			return m, tea.Quit
		}
		m.state = msg.state
		m.warnings = nil
		if msg.state.TodoErr != nil {
			m.warnings = append(m.warnings, "Could not load todos: "+msg.state.TodoErr.Error())
		}
		if msg.state.TaskErr != nil {
			m.warnings = append(m.warnings, "Could not load tasks: "+msg.state.TaskErr.Error())
		}
		return m, m.refresh()

	case changedMsg:
		if err := m.state.Apply(msg.change); err != nil {
			// the item is gone from local state; resync
			m.loading = true
			return m, m.load()
		}
		return m, tea.Batch(m.refresh(), m.flash(msg.change.Message()))

	case failedMsg:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			m.dest = api.DestSignIn
			return m, tea.Quit
		}
		m.modal = fmt.Sprintf("Failed to %s: %v", msg.action, msg.err)
		return m, nil

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.modal != "" {
			if key.Matches(msg, m.keys.Dismiss) {
				m.modal = ""
			}
			return m, nil
		}
		prev := m.mode
		var (
			next tea.Model
			cmd  tea.Cmd
		)
		switch m.mode {
		case modeEdit:
			next, cmd = m.updateEdit(msg)
		case modeAdd:
			next, cmd = m.updateAdd(msg)
		case modePanel:
			next, cmd = m.updatePanel(msg)
		default:
			next, cmd = m.updateList(msg)
		}
		nm := next.(Model)
		if nm.mode != prev {
			// forms and the panel take room from the list
			nm.resize()
		}
		return nm, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		ref, completed := it.Ref, !it.Completed
		return m, m.mutate("update task status", func(ctx context.Context) (board.Change, error) {
			return m.mut.Toggle(ctx, ref, completed)
		})

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		ref := it.Ref
		return m, m.mutate("delete task", func(ctx context.Context) (board.Change, error) {
			return m.mut.Delete(ctx, ref)
		})

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.editRef = it.Ref
		m.form = newForm(true)
		m.form.seed(board.DraftOf(it))
		return m, m.form.focusAt(fieldTitle)

	case key.Matches(msg, m.keys.Add):
		return m.openAdd()

	case key.Matches(msg, m.keys.Panel):
		m.panel.Toggle()
		m.mode = modePanel
		m.menu = 0
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) openAdd() (tea.Model, tea.Cmd) {
	m.mode = modeAdd
	m.form = newForm(false)
	return m, m.form.focusAt(fieldTitle)
}

func (m Model) closeForm() Model {
	m.mode = modeList
	m.form = form{}
	m.editRef = model.Ref{}
	return m
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.closeForm(), nil
	case key.Matches(msg, m.keys.Next):
		return m, m.form.focusAt(m.form.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.form.focusAt(m.form.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		d, err := m.form.draft()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		if d.Title == "" {
			m.form.err = "Title cannot be empty"
			return m, nil
		}
		ref, patch := m.editRef, d.Patch()
		m = m.closeForm()
		return m, m.mutate("update task", func(ctx context.Context) (board.Change, error) {
			return m.mut.Update(ctx, ref, patch)
		})
	}
	return m, m.form.update(msg)
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m.closeForm(), nil
	case key.Matches(msg, m.keys.Next):
		return m, m.form.focusAt(m.form.focus + 1)
	case key.Matches(msg, m.keys.Prev):
		return m, m.form.focusAt(m.form.focus - 1)
	case key.Matches(msg, m.keys.Submit):
		d, err := m.form.draft()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		if d.Title == "" {
			m.modal = panel.MsgEmptyTitle
			return m, nil
		}
		m = m.closeForm()
		return m, m.mutate("add task", func(ctx context.Context) (board.Change, error) {
			return m.mut.Add(ctx, d)
		})
	}
	return m, m.form.update(msg)
}

func (m Model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.panel.State() {
	case panel.Closed, panel.Exited:
		m.mode = modeList
		return m, nil

	case panel.MenuOpen:
		switch {
		case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Panel):
			m.panel.Toggle()
			m.mode = modeList
		case key.Matches(msg, m.keys.Up):
			if m.menu > 0 {
				m.menu--
			}
		case key.Matches(msg, m.keys.Down):
			if m.menu < len(panel.Actions)-1 {
				m.menu++
			}
		case key.Matches(msg, m.keys.Submit):
			action := panel.Actions[m.menu]
			eff, err := m.panel.Select(action, m.state.Items())
			if err != nil {
				m.modal = err.Error()
				return m, nil
			}
			if action == panel.ActionUpdate {
				m.form = newForm(false)
				return m, m.form.focusAt(fieldTitle)
			}
			return m.runEffect(eff)
		}
		return m, nil
	}

	// action selected
	updating := m.panel.Action() == panel.ActionUpdate
	switch {
	case key.Matches(msg, m.keys.Back):
		m.panel.Cancel()
		m.form = form{}
		return m, nil
	case msg.Type == tea.KeyUp:
		m.list.CursorUp()
		return m, nil
	case msg.Type == tea.KeyDown:
		m.list.CursorDown()
		return m, nil
	case key.Matches(msg, m.keys.Choose):
		if it, ok := m.selected(); ok {
			m.panel.Choose(it.Ref)
		}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if updating {
			m.panel.SetForm(m.form.panelForm())
		}
		eff, err := m.panel.Confirm()
		if err != nil {
			m.modal = err.Error()
			return m, nil
		}
		m.form = form{}
		return m.runEffect(eff)
	case updating && key.Matches(msg, m.keys.Next):
		return m, m.form.focusAt(m.form.focus + 1)
	case updating && key.Matches(msg, m.keys.Prev):
		return m, m.form.focusAt(m.form.focus - 1)
	case updating:
		return m, m.form.update(msg)
	}
	return m, nil
}

// runEffect carries out what the action panel asked for.
func (m Model) runEffect(eff panel.Effect) (tea.Model, tea.Cmd) {
	ref := eff.Ref
	switch eff.Kind {
	case panel.EffectShowAddForm:
		return m.openAdd()
	case panel.EffectUpdate:
		patch := eff.Patch
		return m, m.mutate("update task", func(ctx context.Context) (board.Change, error) {
			return m.mut.Update(ctx, ref, patch)
		})
	case panel.EffectDelete:
		return m, m.mutate("delete task", func(ctx context.Context) (board.Change, error) {
			return m.mut.Delete(ctx, ref)
		})
	case panel.EffectToggle:
		completed := eff.Completed
		return m, m.mutate("update task status", func(ctx context.Context) (board.Change, error) {
			return m.mut.Toggle(ctx, ref, completed)
		})
	case panel.EffectExit:
		store, nav := m.session, m.nav
		return m, func() tea.Msg { return exitedMsg{err: panel.Leave(store, nav)} }
	}
	return m, nil
}
