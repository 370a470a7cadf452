// Package panel is the action menu: a small state machine that collects a
// choice and a target and hands back an Effect for its owner to run. It
// never talks to the network.
package panel

import (
	"errors"
	"strings"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/board"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/session"
)

type State int

const (
	Closed State = iota
	MenuOpen
	ActionSelected
	Exited
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case MenuOpen:
		return "menu-open"
	case ActionSelected:
		return "action-selected"
	case Exited:
		return "exited"
	}
	return "unknown"
}

type Action string

const (
	ActionNone       Action = ""
	ActionAdd        Action = "add"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionComplete   Action = "complete"
	ActionIncomplete Action = "incomplete"
	ActionView       Action = "view"
	ActionExit       Action = "exit"
)

// Actions in menu order.
var Actions = []Action{ActionAdd, ActionUpdate, ActionDelete, ActionComplete, ActionIncomplete, ActionView, ActionExit}

// Label is the menu text.
func (a Action) Label() string {
	switch a {
	case ActionAdd:
		return "Add Task"
	case ActionUpdate:
		return "Update Task"
	case ActionDelete:
		return "Delete Task"
	case ActionComplete:
		return "Mark as Complete"
	case ActionIncomplete:
		return "Mark as Incomplete"
	case ActionView:
		return "View Todo List"
	case ActionExit:
		return "Exit"
	}
	return string(a)
}

// NeedsTarget reports whether the action operates on a chosen item.
func (a Action) NeedsTarget() bool {
	switch a {
	case ActionUpdate, ActionDelete, ActionComplete, ActionIncomplete:
		return true
	}
	return false
}

// Notice is a blocking message: the owner shows it and waits for
// acknowledgement. It is returned as an error.
type Notice struct {
	Text string
	err  error
}

func (n *Notice) Error() string { return n.Text }
func (n *Notice) Unwrap() error { return n.err }

var (
	ErrNoItems     = errors.New("no items")
	ErrNoSelection = errors.New("no selection")
)

// MsgEmptyTitle is shown when the add form is submitted without a title.
const MsgEmptyTitle = "Please enter a title for the new task"

type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectShowAddForm
	EffectUpdate
	EffectDelete
	EffectToggle
	EffectView
	EffectExit
)

// Effect is what the owner must do after a transition.
type Effect struct {
	Kind      EffectKind
	Ref       model.Ref
	Patch     board.Patch
	Completed bool
}

// Form holds the update fields typed into the panel. Blank fields are
// left untouched by the update.
type Form struct {
	Title       string
	Description string
	DueDate     string
}

func (f Form) patch() (board.Patch, error) {
	p := board.Patch{Title: model.String(f.Title), Description: model.String(f.Description)}
	if s := strings.TrimSpace(f.DueDate); s != "" {
		t, err := model.ParseTime(s)
		if err != nil {
			return board.Patch{}, err
		}
		p.DueDate = &t
	}
	return p, nil
}

type Panel struct {
	state    State
	action   Action
	selected *model.Ref
	form     Form

	// ViewMode is the externally visible "view list" flag.
	ViewMode bool
}

func New() *Panel { return &Panel{} }

func (p *Panel) State() State   { return p.state }
func (p *Panel) Action() Action { return p.action }
func (p *Panel) Form() Form     { return p.form }
func (p *Panel) SetForm(f Form) { p.form = f }

func (p *Panel) Selected() (model.Ref, bool) {
	if p.selected == nil {
		return model.Ref{}, false
	}
	return *p.selected, true
}

// Toggle opens a closed menu and closes an open one. Closing forgets the
// action, the selection, the form and view mode.
func (p *Panel) Toggle() {
	switch p.state {
	case Exited:
		return
	case Closed:
		p.state = MenuOpen
	default:
		p.reset()
		p.state = Closed
	}
}

func (p *Panel) reset() {
	p.action = ActionNone
	p.selected = nil
	p.form = Form{}
	p.ViewMode = false
}

// Select picks a menu entry. items is the current unified list.
func (p *Panel) Select(a Action, items []board.Item) (Effect, error) {
	if p.state != MenuOpen {
		return Effect{}, nil
	}
	switch {
	case a == ActionAdd:
		// the add form lives outside the panel
		p.reset()
		p.state = Closed
		return Effect{Kind: EffectShowAddForm}, nil
	case a.NeedsTarget() && len(items) == 0:
		return Effect{}, &Notice{Text: "No tasks available!", err: ErrNoItems}
	}
	p.action = a
	p.selected = nil
	p.form = Form{}
	p.state = ActionSelected
	return Effect{}, nil
}

// Choose sets the target item for the selected action.
func (p *Panel) Choose(ref model.Ref) {
	if p.state != ActionSelected {
		return
	}
	r := ref
	p.selected = &r
}

// Confirm runs the selected action. On a missing target it reports a
// Notice and stays put.
func (p *Panel) Confirm() (Effect, error) {
	if p.state != ActionSelected {
		return Effect{}, nil
	}
	var eff Effect
	switch p.action {
	case ActionUpdate, ActionDelete, ActionComplete, ActionIncomplete:
		if p.selected == nil {
			return Effect{}, &Notice{Text: missingTarget(p.action), err: ErrNoSelection}
		}
		eff.Ref = *p.selected
		switch p.action {
		case ActionUpdate:
			patch, err := p.form.patch()
			if err != nil {
				return Effect{}, &Notice{Text: "Invalid due date: " + p.form.DueDate, err: err}
			}
			eff.Kind, eff.Patch = EffectUpdate, patch
		case ActionDelete:
			eff.Kind = EffectDelete
		case ActionComplete:
			eff.Kind, eff.Completed = EffectToggle, true
		case ActionIncomplete:
			eff.Kind, eff.Completed = EffectToggle, false
		}
	case ActionView:
		p.ViewMode = true
		eff.Kind = EffectView
	case ActionExit:
		p.reset()
		p.state = Exited
		return Effect{Kind: EffectExit}, nil
	}
	p.action = ActionNone
	p.selected = nil
	p.form = Form{}
	p.state = MenuOpen
	return eff, nil
}

// Cancel abandons the selected action and returns to the menu.
func (p *Panel) Cancel() {
	if p.state != ActionSelected {
		return
	}
	p.action = ActionNone
	p.selected = nil
	p.form = Form{}
	p.state = MenuOpen
}

func missingTarget(a Action) string {
	switch a {
	case ActionComplete:
		return "Please select a task to mark as complete"
	case ActionIncomplete:
		return "Please select a task to mark as incomplete"
	}
	return "Please select a task to " + string(a)
}

// Leave carries out EffectExit: forget the session and send the user to
// sign-up.
func Leave(store session.Store, nav api.Navigator) error {
	err := store.Clear()
	nav.Navigate(api.DestSignUp)
	return err
}
