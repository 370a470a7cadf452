package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/model"
)

var ErrNotFound = errors.New("item not found")

// Lister fetches both collections. *api.Client satisfies it.
type Lister interface {
	ListTodos(ctx context.Context) ([]model.Todo, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
}

// State is the local copy of both collections. It is owned by one event
// loop; nothing here locks.
type State struct {
	Todos []model.Todo
	Tasks []model.Task

	// Per-family fetch failures from the last Load.
	TodoErr error
	TaskErr error
}

// Load fetches both families. A failure in one leaves the other intact.
// After a 401 the second fetch is skipped: the session is already gone and
// a second teardown would redirect twice.
func Load(ctx context.Context, l Lister) *State {
	s := &State{}
	s.Todos, s.TodoErr = l.ListTodos(ctx)
	if errors.Is(s.TodoErr, api.ErrUnauthorized) {
		s.TaskErr = s.TodoErr
		return s
	}
	s.Tasks, s.TaskErr = l.ListTasks(ctx)
	return s
}

// Err is the first fetch failure, if any.
func (s *State) Err() error {
	if s.TodoErr != nil {
		return s.TodoErr
	}
	return s.TaskErr
}

// Unauthorized reports whether the last Load ended the session.
func (s *State) Unauthorized() bool {
	return errors.Is(s.TodoErr, api.ErrUnauthorized) || errors.Is(s.TaskErr, api.ErrUnauthorized)
}

func (s *State) Items() []Item { return Project(s.Todos, s.Tasks) }

func (s *State) Len() int { return len(s.Todos) + len(s.Tasks) }

func (s *State) Find(ref model.Ref) (Item, bool) {
	if i := s.todoIndex(ref); i >= 0 {
		return FromTodo(s.Todos[i]), true
	}
	if i := s.taskIndex(ref); i >= 0 {
		return FromTask(s.Tasks[i]), true
	}
	return Item{}, false
}

// At resolves a 1-based position in the unified list.
func (s *State) At(pos int) (Item, error) {
	items := s.Items()
	if pos < 1 || pos > len(items) {
		return Item{}, fmt.Errorf("index out of range: have %d, got %d", len(items), pos)
	}
	return items[pos-1], nil
}

// Apply folds a successful mutation into local state. Only the entity the
// change names is touched.
func (s *State) Apply(c Change) error {
	switch c.Op {
	case OpAdd:
		switch {
		case c.Todo != nil:
			s.Todos = append(s.Todos, *c.Todo)
		case c.Task != nil:
			s.Tasks = append(s.Tasks, *c.Task)
		}
		return nil
	case OpUpdate, OpToggle:
		if i := s.todoIndex(c.Ref); i >= 0 && c.Todo != nil {
			s.Todos[i] = *c.Todo
			return nil
		}
		if i := s.taskIndex(c.Ref); i >= 0 && c.Task != nil {
			s.Tasks[i] = *c.Task
			return nil
		}
	case OpDelete:
		if i := s.todoIndex(c.Ref); i >= 0 {
			s.Todos = append(s.Todos[:i], s.Todos[i+1:]...)
			return nil
		}
		if i := s.taskIndex(c.Ref); i >= 0 {
			s.Tasks = append(s.Tasks[:i], s.Tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, c.Ref)
}

func (s *State) todoIndex(ref model.Ref) int {
	id, ok := ref.TodoID()
	if !ok {
		return -1
	}
	for i, t := range s.Todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) taskIndex(ref model.Ref) int {
	if ref.Kind() != model.KindTask {
		return -1
	}
	for i, t := range s.Tasks {
		if model.TaskRef(t.ID).Equal(ref) {
			return i
		}
	}
	return -1
}
