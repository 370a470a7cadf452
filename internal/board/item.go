// Package board merges the two resource families into one list and routes
// every mutation back to the family an item came from.
package board

import (
	"hash/fnv"
	"math"
	"strconv"

	"github.com/idilsaglam/evotodo/internal/model"
)

const (
	NoDescription = "No description"
	NoDueDate     = "No due date"
)

// Item is the unified view of a Todo or a Task. It is rebuilt from the two
// source collections on every render and never stored.
type Item struct {
	// Ref is authoritative for all mutations.
	Ref model.Ref
	// DisplayID is a numeric key for code that needs one. Do not dispatch on it.
	DisplayID int64

	Title          string
	Description    string
	HasDescription bool
	Completed      bool
	Status         model.TaskStatus
	Priority       model.Priority
	DueDate        *model.Time
	CreatedAt      *model.Time
	UpdatedAt      *model.Time
	CompletedAt    *model.Time
	UserID         int64
}

func (i Item) Kind() model.Kind { return i.Ref.Kind() }

func (i Item) DescriptionOr(fallback string) string {
	if !i.HasDescription {
		return fallback
	}
	return i.Description
}

func (i Item) DueLabel() string {
	if d := i.DueDate.DateString(); d != "" {
		return d
	}
	return NoDueDate
}

// Project merges todos then tasks, each in source order. It never fails,
// drops or reorders.
func Project(todos []model.Todo, tasks []model.Task) []Item {
	out := make([]Item, 0, len(todos)+len(tasks))
	for _, t := range todos {
		out = append(out, FromTodo(t))
	}
	for _, t := range tasks {
		out = append(out, FromTask(t))
	}
	return out
}

func FromTodo(t model.Todo) Item {
	it := Item{
		Ref:       model.TodoRef(t.ID),
		DisplayID: t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Status:    model.StatusOf(t.Completed),
		DueDate:   t.DueDate,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		UserID:    t.UserID,
	}
	if t.Description != nil {
		it.Description, it.HasDescription = *t.Description, true
	}
	return it
}

func FromTask(t model.Task) Item {
	it := Item{
		Ref:         model.TaskRef(t.ID),
		DisplayID:   displayID(t.ID),
		Title:       t.Title,
		Completed:   t.Completed(),
		Status:      t.Status,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
		UserID:      t.UserID,
	}
	if t.Description != nil {
		it.Description, it.HasDescription = *t.Description, true
	}
	if t.Priority != nil {
		it.Priority = *t.Priority
	}
	return it
}

// displayID is the id itself for numeric task ids and a placeholder
// otherwise.
func displayID(id model.TaskID) int64 {
	if id.IsNumeric() {
		if n, err := strconv.ParseInt(id.String(), 10, 64); err == nil {
			return n
		}
	}
	return PlaceholderID(id)
}

// PlaceholderID hashes the id text (FNV-1a) into a positive int64. Equal
// ids give equal placeholders; unlike a numeric parse it does not fold
// distinct ids such as "12-a" and "12-b" together.
func PlaceholderID(id model.TaskID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id.String()))
	return int64(h.Sum64() & math.MaxInt64)
}
