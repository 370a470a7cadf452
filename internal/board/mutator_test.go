package board

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/idilsaglam/evotodo/internal/model"
)

var errBackend = errors.New("backend down")

// fakeAPI records which family was called. Function fields override the
// default echo behaviour.
type fakeAPI struct {
	todoCalls []string
	taskCalls []string

	CreateTodoFunc func(model.TodoCreate) (model.Todo, error)
	UpdateTaskFunc func(model.TaskID, model.TaskUpdate) (model.Task, error)
	failAll        bool
}

func (f *fakeAPI) CreateTodo(_ context.Context, in model.TodoCreate) (model.Todo, error) {
	f.todoCalls = append(f.todoCalls, "create")
	if f.failAll {
		return model.Todo{}, errBackend
	}
	if f.CreateTodoFunc != nil {
		return f.CreateTodoFunc(in)
	}
	return model.Todo{ID: 99, Title: in.Title, Description: in.Description, DueDate: in.DueDate}, nil
}

func (f *fakeAPI) UpdateTodo(_ context.Context, id int64, in model.TodoUpdate) (model.Todo, error) {
	f.todoCalls = append(f.todoCalls, "update")
	if f.failAll {
		return model.Todo{}, errBackend
	}
	t := model.Todo{ID: id}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
	return t, nil
}

func (f *fakeAPI) SetTodoCompleted(_ context.Context, id int64, completed bool) (model.Todo, error) {
	f.todoCalls = append(f.todoCalls, "toggle")
	if f.failAll {
		return model.Todo{}, errBackend
	}
	return model.Todo{ID: id, Title: "t", Completed: completed}, nil
}

func (f *fakeAPI) DeleteTodo(context.Context, int64) error {
	f.todoCalls = append(f.todoCalls, "delete")
	if f.failAll {
		return errBackend
	}
	return nil
}

func (f *fakeAPI) CreateTask(_ context.Context, in model.TaskCreate) (model.Task, error) {
	f.taskCalls = append(f.taskCalls, "create")
	if f.failAll {
		return model.Task{}, errBackend
	}
	return model.Task{ID: model.NewTaskID("new-1"), Title: in.Title, Status: in.Status, Priority: in.Priority}, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id model.TaskID, in model.TaskUpdate) (model.Task, error) {
	f.taskCalls = append(f.taskCalls, "update")
	if f.failAll {
		return model.Task{}, errBackend
	}
	if f.UpdateTaskFunc != nil {
		return f.UpdateTaskFunc(id, in)
	}
	t := model.Task{ID: id, Status: model.StatusPending}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	return t, nil
}

func (f *fakeAPI) CompleteTask(_ context.Context, id model.TaskID) (model.Task, error) {
	f.taskCalls = append(f.taskCalls, "complete")
	if f.failAll {
		return model.Task{}, errBackend
	}
	return model.Task{ID: id, Title: "t", Status: model.StatusCompleted}, nil
}

func (f *fakeAPI) DeleteTask(context.Context, model.TaskID) error {
	f.taskCalls = append(f.taskCalls, "delete")
	if f.failAll {
		return errBackend
	}
	return nil
}

func newFixture() (*fakeAPI, *Mutator, *State) {
	f := &fakeAPI{}
	st := &State{
		Todos: []model.Todo{{ID: 1, Title: "one"}, {ID: 2, Title: "two"}},
		Tasks: []model.Task{
			{ID: model.NewTaskID("abc-1"), Title: "alpha", Status: model.StatusPending},
			{ID: model.NumericTaskID(2), Title: "beta", Status: model.StatusPending},
		},
	}
	return f, NewMutator(f, f), st
}

func TestDispatchByKind(t *testing.T) {
	ctx := context.Background()
	ops := []struct {
		name string
		run  func(*Mutator, model.Ref) (Change, error)
	}{
		{"toggle on", func(m *Mutator, r model.Ref) (Change, error) { return m.Toggle(ctx, r, true) }},
		{"toggle off", func(m *Mutator, r model.Ref) (Change, error) { return m.Toggle(ctx, r, false) }},
		{"update", func(m *Mutator, r model.Ref) (Change, error) {
			return m.Update(ctx, r, Patch{Title: model.String("x")})
		}},
		{"delete", func(m *Mutator, r model.Ref) (Change, error) { return m.Delete(ctx, r) }},
	}
	for _, op := range ops {
		t.Run(op.name+"/todo", func(t *testing.T) {
			f, m, _ := newFixture()
			if _, err := op.run(m, model.TodoRef(2)); err != nil {
				t.Fatal(err)
			}
			if len(f.todoCalls) != 1 || len(f.taskCalls) != 0 {
				t.Errorf("todo calls %v, task calls %v", f.todoCalls, f.taskCalls)
			}
		})
		t.Run(op.name+"/task", func(t *testing.T) {
			f, m, _ := newFixture()
			// numeric task id: must still go to the task API.
			if _, err := op.run(m, model.TaskRef(model.NumericTaskID(2))); err != nil {
				t.Fatal(err)
			}
			if len(f.taskCalls) != 1 || len(f.todoCalls) != 0 {
				t.Errorf("todo calls %v, task calls %v", f.todoCalls, f.taskCalls)
			}
		})
	}
}

func TestInvalidRefIsRejected(t *testing.T) {
	f, m, _ := newFixture()
	if _, err := m.Delete(context.Background(), model.Ref{}); !errors.Is(err, model.ErrInvalidRef) {
		t.Errorf("err = %v, want ErrInvalidRef", err)
	}
	if len(f.todoCalls)+len(f.taskCalls) != 0 {
		t.Error("zero ref reached an API")
	}
}

func TestToggleTwiceRestoresState(t *testing.T) {
	for _, ref := range []model.Ref{model.TodoRef(1), model.TaskRef(model.NewTaskID("abc-1"))} {
		t.Run(ref.Key(), func(t *testing.T) {
			f, m, st := newFixture()
			before, _ := st.Find(ref)
			ctx := context.Background()

			c, err := m.Toggle(ctx, ref, true)
			if err != nil {
				t.Fatal(err)
			}
			if err := st.Apply(c); err != nil {
				t.Fatal(err)
			}
			if it, _ := st.Find(ref); !it.Completed {
				t.Fatal("first toggle did not complete")
			}

			c, err = m.Toggle(ctx, ref, false)
			if err != nil {
				t.Fatal(err)
			}
			if err := st.Apply(c); err != nil {
				t.Fatal(err)
			}
			after, _ := st.Find(ref)
			if after.Completed != before.Completed {
				t.Errorf("completed = %v, want %v", after.Completed, before.Completed)
			}
			if n := len(f.todoCalls) + len(f.taskCalls); n != 2 {
				t.Errorf("API calls = %d, want 2", n)
			}
		})
	}
}

func TestApplyTouchesOnlyTarget(t *testing.T) {
	_, m, st := newFixture()
	// A concurrent local edit on another item must survive.
	st.Todos[0].Title = "edited locally"

	c, err := m.Update(context.Background(), model.TodoRef(2), Patch{Title: model.String("renamed")})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(c); err != nil {
		t.Fatal(err)
	}
	if st.Todos[0].Title != "edited locally" {
		t.Errorf("neighbour overwritten: %q", st.Todos[0].Title)
	}
	if st.Todos[1].Title != "renamed" {
		t.Errorf("target = %q", st.Todos[1].Title)
	}
	if st.Tasks[0].Title != "alpha" || st.Tasks[1].Title != "beta" {
		t.Errorf("tasks changed: %+v", st.Tasks)
	}
}

func TestApplyMatchesTaskByRefNotDisplayID(t *testing.T) {
	_, m, st := newFixture()
	// todo:2 and task:2 share a number; deleting the task keeps the todo.
	c, err := m.Delete(context.Background(), model.TaskRef(model.NumericTaskID(2)))
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(c); err != nil {
		t.Fatal(err)
	}
	if len(st.Tasks) != 1 || len(st.Todos) != 2 {
		t.Errorf("todos=%d tasks=%d", len(st.Todos), len(st.Tasks))
	}
	if err := st.Apply(c); !errors.Is(err, ErrNotFound) {
		t.Errorf("second apply err = %v, want ErrNotFound", err)
	}
}

func TestApplyTellsNumericFromTextualTaskIDs(t *testing.T) {
	f := &fakeAPI{}
	m := NewMutator(f, f)
	text := model.TaskRef(model.NewTaskID("2"))
	cases := []struct {
		name string
		run  func() (Change, error)
		want []string
	}{
		{"update", func() (Change, error) {
			return m.Update(context.Background(), text, Patch{Title: model.String("text-updated")})
		}, []string{"numeric", "text-updated"}},
		{"delete", func() (Change, error) {
			return m.Delete(context.Background(), text)
		}, []string{"numeric"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := &State{Tasks: []model.Task{
				{ID: model.NumericTaskID(2), Title: "numeric"},
				{ID: model.NewTaskID("2"), Title: "text"},
			}}
			c, err := tc.run()
			if err != nil {
				t.Fatal(err)
			}
			if err := st.Apply(c); err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, task := range st.Tasks {
				got = append(got, task.Title)
			}
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Errorf("tasks = %v, want %v", got, tc.want)
			}
			if !st.Tasks[0].ID.IsNumeric() {
				t.Error("numeric task lost its id form")
			}
		})
	}
}

func TestFailureLeavesStateUnchanged(t *testing.T) {
	f, m, st := newFixture()
	f.failAll = true
	before := st.Items()

	if _, err := m.Toggle(context.Background(), model.TodoRef(1), true); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	if _, err := m.Add(context.Background(), Draft{Title: "x"}); !errors.Is(err, errBackend) {
		t.Fatalf("err = %v", err)
	}
	after := st.Items()
	if len(before) != len(after) {
		t.Fatalf("len changed %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Ref.Key() != after[i].Ref.Key() || before[i].Completed != after[i].Completed {
			t.Errorf("item %d changed", i)
		}
	}
}

func TestAddBuyMilk(t *testing.T) {
	f, m, st := newFixture()
	c, err := m.Add(context.Background(), Draft{Title: "Buy milk"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Todo == nil || c.Todo.Completed || c.Todo.Description != nil || c.Todo.DueDate != nil {
		t.Fatalf("created = %+v", c.Todo)
	}
	if err := st.Apply(c); err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, td := range st.Todos {
		if td.Title == "Buy milk" {
			n++
		}
	}
	if n != 1 || len(st.Todos) != 3 {
		t.Errorf("Buy milk appended %d times, todos=%d", n, len(st.Todos))
	}
	if c.Message() != "Task Added Successfully in Todo List" {
		t.Errorf("message = %q", c.Message())
	}
	if len(f.taskCalls) != 0 {
		t.Error("default add target reached task API")
	}
}

func TestAddEmptyTitleIssuesNoCall(t *testing.T) {
	f, m, _ := newFixture()
	for _, target := range []model.Kind{model.KindTodo, model.KindTask} {
		m.AddTarget = target
		if _, err := m.Add(context.Background(), Draft{Title: "  "}); !errors.Is(err, model.ErrEmptyTitle) {
			t.Errorf("%s: err = %v, want ErrEmptyTitle", target, err)
		}
	}
	if len(f.todoCalls)+len(f.taskCalls) != 0 {
		t.Errorf("calls issued: %v %v", f.todoCalls, f.taskCalls)
	}
}

func TestAddToTaskFamily(t *testing.T) {
	f, m, st := newFixture()
	m.AddTarget = model.KindTask
	c, err := m.Add(context.Background(), Draft{Title: "Plan", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatal(err)
	}
	if c.Task == nil || c.Ref.Kind() != model.KindTask || *c.Task.Priority != model.PriorityHigh {
		t.Fatalf("change = %+v", c)
	}
	_ = st.Apply(c)
	if len(st.Tasks) != 3 || len(f.todoCalls) != 0 {
		t.Errorf("tasks=%d todoCalls=%v", len(st.Tasks), f.todoCalls)
	}
}

func TestUpdateTaskMapsCompletedToStatus(t *testing.T) {
	f, m, _ := newFixture()
	var got model.TaskUpdate
	f.UpdateTaskFunc = func(id model.TaskID, in model.TaskUpdate) (model.Task, error) {
		got = in
		return model.Task{ID: id}, nil
	}
	_, err := m.Update(context.Background(), model.TaskRef(model.NewTaskID("abc-1")), Draft{Title: "t", Completed: true}.Patch())
	if err != nil {
		t.Fatal(err)
	}
	if got.Status == nil || *got.Status != model.StatusCompleted {
		t.Errorf("status = %v", got.Status)
	}
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	f, m, _ := newFixture()
	if _, err := m.Update(context.Background(), model.TodoRef(1), Patch{Title: new(string)}); !errors.Is(err, model.ErrEmptyTitle) {
		t.Errorf("err = %v", err)
	}
	if len(f.todoCalls) != 0 {
		t.Error("blank title reached the API")
	}
}
