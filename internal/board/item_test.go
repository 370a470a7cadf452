package board

import (
	"testing"

	"github.com/idilsaglam/evotodo/internal/model"
)

func TestProjectOrderAndIdentity(t *testing.T) {
	todos := []model.Todo{
		{ID: 3, Title: "b"},
		{ID: 1, Title: "a", Completed: true, Description: model.String("desc")},
	}
	tasks := []model.Task{
		{ID: model.NewTaskID("abc-1"), Title: "c", Status: model.StatusCompleted},
		{ID: model.NumericTaskID(1), Title: "d", Status: model.StatusInProgress},
	}

	items := Project(todos, tasks)
	if len(items) != 4 {
		t.Fatalf("len = %d, want 4", len(items))
	}
	wantKeys := []string{"todo:3", "todo:1", "task:abc-1", "task:1"}
	for i, want := range wantKeys {
		if got := items[i].Ref.Key(); got != want {
			t.Errorf("items[%d] = %s, want %s", i, got, want)
		}
	}

	// task:1 and todo:1 share a number but stay distinct.
	if items[1].Ref.Equal(items[3].Ref) {
		t.Error("todo:1 and task:1 collapsed")
	}
	if id, ok := items[3].Ref.TaskID(); !ok || !id.IsNumeric() {
		t.Error("numeric task id lost its original type")
	}
	if items[3].Completed || items[3].Status != model.StatusInProgress {
		t.Errorf("in-progress task projected as %+v", items[3])
	}
}

func TestProjectCompletedTask(t *testing.T) {
	items := Project(nil, []model.Task{{ID: model.NewTaskID("abc-1"), Title: "x", Status: model.StatusCompleted}})
	it := items[0]
	if !it.Completed || it.Kind() != model.KindTask {
		t.Fatalf("item = %+v", it)
	}
	id, ok := it.Ref.TaskID()
	if !ok || id.String() != "abc-1" || id.IsNumeric() {
		t.Errorf("originalId = %v (numeric=%v)", id, id.IsNumeric())
	}
}

func TestProjectFallbacks(t *testing.T) {
	items := Project([]model.Todo{{ID: 1, Title: "Buy milk"}}, nil)
	it := items[0]
	if it.DescriptionOr(NoDescription) != NoDescription {
		t.Errorf("description fallback = %q", it.DescriptionOr(NoDescription))
	}
	if it.DueLabel() != NoDueDate {
		t.Errorf("due fallback = %q", it.DueLabel())
	}
	if len(Project(nil, nil)) != 0 {
		t.Error("empty input should project to empty output")
	}
}

func TestPlaceholderID(t *testing.T) {
	a := PlaceholderID(model.NewTaskID("12-a"))
	b := PlaceholderID(model.NewTaskID("12-b"))
	if a == b {
		t.Error("distinct ids share a placeholder")
	}
	if a != PlaceholderID(model.NewTaskID("12-a")) {
		t.Error("placeholder not deterministic")
	}
	if a < 0 || b < 0 {
		t.Error("placeholder must be non-negative")
	}
}

func TestTaskDisplayID(t *testing.T) {
	items := Project(nil, []model.Task{
		{ID: model.NumericTaskID(42), Title: "numeric"},
		{ID: model.NewTaskID("42"), Title: "digits as text"},
		{ID: model.NewTaskID("abc-1"), Title: "text"},
	})
	if items[0].DisplayID != 42 {
		t.Errorf("numeric task display id = %d, want 42", items[0].DisplayID)
	}
	if got, want := items[1].DisplayID, PlaceholderID(model.NewTaskID("42")); got != want {
		t.Errorf("textual digits display id = %d, want placeholder %d", got, want)
	}
	if got, want := items[2].DisplayID, PlaceholderID(model.NewTaskID("abc-1")); got != want {
		t.Errorf("text display id = %d, want placeholder %d", got, want)
	}
}
