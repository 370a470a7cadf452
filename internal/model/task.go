package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusCompleted  TaskStatus = "completed"
	StatusInProgress TaskStatus = "in-progress"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusInProgress:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TaskID is a task identifier as the backend sent it. The task subsystem has
// issued both JSON numbers and JSON strings; the original form is kept so the
// id round-trips unchanged.
type TaskID struct {
	text    string
	numeric bool
}

// NewTaskID returns a textual id.
func NewTaskID(s string) TaskID { return TaskID{text: s} }

// NumericTaskID returns an id that encodes as a JSON number.
func NumericTaskID(n int64) TaskID {
	return TaskID{text: strconv.FormatInt(n, 10), numeric: true}
}

func (id TaskID) String() string { return id.text }
func (id TaskID) IsNumeric() bool { return id.numeric }
func (id TaskID) IsZero() bool    { return id.text == "" }

func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = TaskID{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("task id: %w", err)
		}
		*id = TaskID{text: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID{text: n.String(), numeric: true}
	return nil
}

func (id TaskID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.text), nil
	}
	return json.Marshal(id.text)
}

// Task is the entity managed by the assistant-facing task subsystem.
type Task struct {
	ID          TaskID     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *Time      `json:"due_date,omitempty"`
	CreatedAt   *Time      `json:"created_at,omitempty"`
	UpdatedAt   *Time      `json:"updated_at,omitempty"`
	CompletedAt *Time      `json:"completed_at,omitempty"`
	UserID      int64      `json:"user_id"`
}

func (t Task) Completed() bool { return t.Status == StatusCompleted }

// TaskCreate is the body of POST /api/tasks.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      TaskStatus `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *Time      `json:"due_date,omitempty"`
}

func (c *TaskCreate) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" {
		return ErrEmptyTitle
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	if c.Priority != nil && !c.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", *c.Priority)
	}
	return nil
}

// TaskUpdate is the body of PUT /api/tasks/{id}.
type TaskUpdate struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	DueDate     *Time       `json:"due_date,omitempty"`
}

func StatusOf(completed bool) TaskStatus {
	if completed {
		return StatusCompleted
	}
	return StatusPending
}
