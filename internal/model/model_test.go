package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestTaskIDKeepsJSONForm(t *testing.T) {
	var tasks []Task
	input := `[{"id": 42, "title": "a", "status": "pending", "user_id": 1},
		{"id": "abc-1", "title": "b", "status": "completed", "user_id": 1}]`
	if err := json.Unmarshal([]byte(input), &tasks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !tasks[0].ID.IsNumeric() || tasks[0].ID.String() != "42" {
		t.Errorf("first id = %q numeric=%v", tasks[0].ID, tasks[0].ID.IsNumeric())
	}
	if tasks[1].ID.IsNumeric() || tasks[1].ID.String() != "abc-1" {
		t.Errorf("second id = %q numeric=%v", tasks[1].ID, tasks[1].ID.IsNumeric())
	}

	b, err := json.Marshal(tasks[0].ID)
	if err != nil || string(b) != "42" {
		t.Errorf("marshal numeric = %s, %v", b, err)
	}
	b, err = json.Marshal(tasks[1].ID)
	if err != nil || string(b) != `"abc-1"` {
		t.Errorf("marshal text = %s, %v", b, err)
	}
}

func TestParseRef(t *testing.T) {
	cases := []struct {
		in      string
		kind    Kind
		key     string
		wantErr bool
	}{
		{in: "todo:3", kind: KindTodo, key: "todo:3"},
		{in: "task:abc-1", kind: KindTask, key: "task:abc-1"},
		{in: "TASK:7", kind: KindTask, key: "task:7"},
		{in: "todo:x", wantErr: true},
		{in: "3", wantErr: true},
		{in: "note:1", wantErr: true},
		{in: "task:", wantErr: true},
	}
	for _, tc := range cases {
		r, err := ParseRef(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidRef) {
				t.Errorf("ParseRef(%q) err = %v, want ErrInvalidRef", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRef(%q): %v", tc.in, err)
			continue
		}
		if r.Kind() != tc.kind || r.Key() != tc.key {
			t.Errorf("ParseRef(%q) = %s/%s, want %s/%s", tc.in, r.Kind(), r.Key(), tc.kind, tc.key)
		}
	}
}

func TestRefEqualKeepsIDForm(t *testing.T) {
	decoded := TaskRef(NumericTaskID(5))
	typed, err := ParseRef("task:5")
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Equal(typed) {
		t.Error("numeric task 5 equals textual task \"5\"")
	}
	if decoded.Key() != typed.Key() {
		t.Errorf("keys differ: %s vs %s", decoded.Key(), typed.Key())
	}
	if !decoded.Equal(TaskRef(NumericTaskID(5))) || !typed.Equal(TaskRef(NewTaskID("5"))) {
		t.Error("same id in the same form is not equal")
	}
	if TodoRef(5).Equal(typed) || TodoRef(5).Equal(decoded) {
		t.Error("todo:5 must never equal task:5")
	}
	if !TodoRef(5).Equal(TodoRef(5)) || (Ref{}).Equal(Ref{}) {
		t.Error("todo equality or zero ref")
	}
}

func TestParseTimeLayouts(t *testing.T) {
	want := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2025-01-02", "2025-01-02T00:00:00", "2025-01-02T00:00:00Z", "2025-01-02T00:00:00.000000"} {
		got, err := ParseTime(s)
		if err != nil {
			t.Errorf("ParseTime(%q): %v", s, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseTime(%q) = %v, want %v", s, got.Time, want)
		}
	}
	if _, err := ParseTime("next tuesday"); err == nil {
		t.Error("expected error for free text")
	}
}

func TestCreateValidation(t *testing.T) {
	c := TodoCreate{Title: "   "}
	if err := c.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("blank todo title err = %v", err)
	}
	tc := TaskCreate{Title: " Ship it "}
	if err := tc.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if tc.Title != "Ship it" || tc.Status != StatusPending {
		t.Errorf("normalized = %+v", tc)
	}
	bad := Priority("urgent")
	tc = TaskCreate{Title: "x", Priority: &bad}
	if err := tc.Validate(); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestTodoDecodesOptionalFields(t *testing.T) {
	var td Todo
	if err := json.Unmarshal([]byte(`{"id":1,"title":"Buy milk","completed":false,"user_id":9,"due_date":null}`), &td); err != nil {
		t.Fatal(err)
	}
	if td.Description != nil {
		t.Errorf("description = %v, want nil", *td.Description)
	}
	if td.DueDate.DateString() != "" {
		t.Errorf("due = %q, want empty", td.DueDate.DateString())
	}
}
