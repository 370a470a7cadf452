package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind names the resource family an entity lives in.
type Kind string

const (
	KindTodo Kind = "todo"
	KindTask Kind = "task"
)

func (k Kind) Valid() bool { return k == KindTodo || k == KindTask }

var ErrInvalidRef = errors.New("invalid reference")

// Ref identifies exactly one entity in exactly one family. The family is
// carried explicitly; it is never inferred from the shape of the id.
type Ref struct {
	kind Kind
	todo int64
	task TaskID
}

func TodoRef(id int64) Ref  { return Ref{kind: KindTodo, todo: id} }
func TaskRef(id TaskID) Ref { return Ref{kind: KindTask, task: id} }

func (r Ref) Kind() Kind { return r.kind }
func (r Ref) IsZero() bool {
	return r.kind == ""
}

// TodoID returns the numeric id when r points at a todo.
func (r Ref) TodoID() (int64, bool) {
	return r.todo, r.kind == KindTodo
}

// TaskID returns the task id when r points at a task.
func (r Ref) TaskID() (TaskID, bool) {
	return r.task, r.kind == KindTask
}

// Key is the "<kind>:<id>" text form. A numeric task id and a textual one
// with the same digits share a key; use Equal for identity.
func (r Ref) Key() string {
	switch r.kind {
	case KindTodo:
		return "todo:" + strconv.FormatInt(r.todo, 10)
	case KindTask:
		return "task:" + r.task.String()
	}
	return ""
}

func (r Ref) String() string { return r.Key() }

// ParseRef reads the "<kind>:<id>" form produced by Key. Task ids parsed
// from text are textual even when they look numeric.
func ParseRef(s string) (Ref, error) {
	kind, id, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || id == "" {
		return Ref{}, fmt.Errorf("%w: %q (want todo:<id> or task:<id>)", ErrInvalidRef, s)
	}
	switch Kind(strings.ToLower(kind)) {
	case KindTodo:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Ref{}, fmt.Errorf("%w: todo id %q is not a number", ErrInvalidRef, id)
		}
		return TodoRef(n), nil
	case KindTask:
		return TaskRef(NewTaskID(id)), nil
	}
	return Ref{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidRef, kind)
}

// Equal reports whether r and o name the same entity: same family, same id
// and, for tasks, the same JSON form.
func (r Ref) Equal(o Ref) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case KindTodo:
		return r.todo == o.todo
	case KindTask:
		return r.task == o.task
	}
	return false
}
