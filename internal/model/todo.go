package model

import (
	"errors"
	"strings"
)

var ErrEmptyTitle = errors.New("title cannot be empty")

// Todo is the legacy entity: numeric id, boolean completion.
type Todo struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Completed   bool    `json:"completed"`
	DueDate     *Time   `json:"due_date,omitempty"`
	UserID      int64   `json:"user_id"`
	CreatedAt   *Time   `json:"created_at,omitempty"`
	UpdatedAt   *Time   `json:"updated_at,omitempty"`
}

// TodoCreate is the body of POST /api/todos.
type TodoCreate struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *Time   `json:"due_date,omitempty"`
}

func (c *TodoCreate) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// TodoUpdate is the body of PUT /api/todos/{id}. Nil fields are left alone
// by the backend.
type TodoUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *Time   `json:"due_date,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// String returns a pointer to s, or nil when s is blank.
func String(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func Bool(b bool) *bool { return &b }
