package board

import (
	"context"
	"fmt"
	"strings"

	"github.com/idilsaglam/evotodo/internal/model"
)

type TodoAPI interface {
	CreateTodo(ctx context.Context, in model.TodoCreate) (model.Todo, error)
	UpdateTodo(ctx context.Context, id int64, in model.TodoUpdate) (model.Todo, error)
	SetTodoCompleted(ctx context.Context, id int64, completed bool) (model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
}

type TaskAPI interface {
	CreateTask(ctx context.Context, in model.TaskCreate) (model.Task, error)
	UpdateTask(ctx context.Context, id model.TaskID, in model.TaskUpdate) (model.Task, error)
	CompleteTask(ctx context.Context, id model.TaskID) (model.Task, error)
	DeleteTask(ctx context.Context, id model.TaskID) error
}

type Op int

const (
	OpAdd Op = iota + 1
	OpUpdate
	OpToggle
	OpDelete
)

// Change is the result of one successful call, ready for State.Apply.
type Change struct {
	Op        Op
	Ref       model.Ref
	Completed bool // OpToggle: the requested state
	Todo      *model.Todo
	Task      *model.Task
}

// Message is the success notice shown to the user.
func (c Change) Message() string {
	switch c.Op {
	case OpAdd:
		return "Task Added Successfully in Todo List"
	case OpUpdate:
		return "Task Updated Successfully in Todo List"
	case OpToggle:
		if c.Completed {
			return "Task Marked as Complete Successfully"
		}
		return "Task Marked as Incomplete Successfully"
	case OpDelete:
		return "Task Deleted Successfully from Todo List"
	}
	return ""
}

// Draft is the add/edit form.
type Draft struct {
	Title       string
	Description string
	DueDate     *model.Time
	Completed   bool
	Priority    model.Priority
}

// Patch returns every field of the draft as an update.
func (d Draft) Patch() Patch {
	title := strings.TrimSpace(d.Title)
	desc := strings.TrimSpace(d.Description)
	return Patch{Title: &title, Description: &desc, DueDate: d.DueDate, Completed: model.Bool(d.Completed)}
}

// DraftOf seeds an edit form from an item.
func DraftOf(it Item) Draft {
	return Draft{
		Title:       it.Title,
		Description: it.Description,
		DueDate:     it.DueDate,
		Completed:   it.Completed,
		Priority:    it.Priority,
	}
}

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *model.Time
	Completed   *bool
}

func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Completed == nil
}

// Mutator routes each call to the family named by the ref's kind.
type Mutator struct {
	Todos TodoAPI
	Tasks TaskAPI
	// AddTarget is the family new items go to. Defaults to todos.
	AddTarget model.Kind
}

func NewMutator(todos TodoAPI, tasks TaskAPI) *Mutator {
	return &Mutator{Todos: todos, Tasks: tasks, AddTarget: model.KindTodo}
}

// Add validates before any call is made.
func (m *Mutator) Add(ctx context.Context, d Draft) (Change, error) {
	if m.AddTarget == model.KindTask {
		in := model.TaskCreate{
			Title:       d.Title,
			Description: model.String(d.Description),
			DueDate:     d.DueDate,
			Status:      model.StatusOf(d.Completed),
		}
		if d.Priority != "" {
			p := d.Priority
			in.Priority = &p
		}
		if err := in.Validate(); err != nil {
			return Change{}, err
		}
		t, err := m.Tasks.CreateTask(ctx, in)
		if err != nil {
			return Change{}, err
		}
		return Change{Op: OpAdd, Ref: model.TaskRef(t.ID), Task: &t}, nil
	}

	in := model.TodoCreate{Title: d.Title, Description: model.String(d.Description), DueDate: d.DueDate}
	if err := in.Validate(); err != nil {
		return Change{}, err
	}
	t, err := m.Todos.CreateTodo(ctx, in)
	if err != nil {
		return Change{}, err
	}
	return Change{Op: OpAdd, Ref: model.TodoRef(t.ID), Todo: &t}, nil
}

// Toggle issues exactly one call. Tasks have no reopen endpoint, so
// reopening is an update to status pending.
func (m *Mutator) Toggle(ctx context.Context, ref model.Ref, completed bool) (Change, error) {
	c := Change{Op: OpToggle, Ref: ref, Completed: completed}
	switch ref.Kind() {
	case model.KindTodo:
		id, _ := ref.TodoID()
		t, err := m.Todos.SetTodoCompleted(ctx, id, completed)
		if err != nil {
			return Change{}, err
		}
		c.Todo = &t
	case model.KindTask:
		id, _ := ref.TaskID()
		var (
			t   model.Task
			err error
		)
		if completed {
			t, err = m.Tasks.CompleteTask(ctx, id)
		} else {
			pending := model.StatusPending
			t, err = m.Tasks.UpdateTask(ctx, id, model.TaskUpdate{Status: &pending})
		}
		if err != nil {
			return Change{}, err
		}
		c.Task = &t
	default:
		return Change{}, fmt.Errorf("toggle: %w: %q", model.ErrInvalidRef, ref)
	}
	return c, nil
}

func (m *Mutator) Update(ctx context.Context, ref model.Ref, p Patch) (Change, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return Change{}, model.ErrEmptyTitle
	}
	c := Change{Op: OpUpdate, Ref: ref}
	switch ref.Kind() {
	case model.KindTodo:
		id, _ := ref.TodoID()
		t, err := m.Todos.UpdateTodo(ctx, id, model.TodoUpdate{
			Title:       p.Title,
			Description: p.Description,
			DueDate:     p.DueDate,
			Completed:   p.Completed,
		})
		if err != nil {
			return Change{}, err
		}
		c.Todo = &t
	case model.KindTask:
		id, _ := ref.TaskID()
		in := model.TaskUpdate{Title: p.Title, Description: p.Description, DueDate: p.DueDate}
		if p.Completed != nil {
			st := model.StatusOf(*p.Completed)
			in.Status = &st
		}
		t, err := m.Tasks.UpdateTask(ctx, id, in)
		if err != nil {
			return Change{}, err
		}
		c.Task = &t
	default:
		return Change{}, fmt.Errorf("update: %w: %q", model.ErrInvalidRef, ref)
	}
	return c, nil
}

func (m *Mutator) Delete(ctx context.Context, ref model.Ref) (Change, error) {
	switch ref.Kind() {
	case model.KindTodo:
		id, _ := ref.TodoID()
		if err := m.Todos.DeleteTodo(ctx, id); err != nil {
			return Change{}, err
		}
	case model.KindTask:
		id, _ := ref.TaskID()
		if err := m.Tasks.DeleteTask(ctx, id); err != nil {
			return Change{}, err
		}
	default:
		return Change{}, fmt.Errorf("delete: %w: %q", model.ErrInvalidRef, ref)
	}
	return Change{Op: OpDelete, Ref: ref}, nil
}
