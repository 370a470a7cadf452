package board

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/idilsaglam/evotodo/internal/api"
	"github.com/idilsaglam/evotodo/internal/apitest"
	"github.com/idilsaglam/evotodo/internal/model"
	"github.com/idilsaglam/evotodo/internal/session"
)

func newClient(t *testing.T) (*api.Client, *apitest.Server, *int) {
	t.Helper()
	srv := apitest.New(t)
	redirects := 0
	store := session.NewMemoryStore(session.NewToken(srv.Token(), "bearer"))
	c := api.New(srv.URL, store, api.WithNavigator(api.NavigatorFunc(func(api.Destination) { redirects++ })))
	return c, srv, &redirects
}

func TestLoadPartialFailure(t *testing.T) {
	c, srv, _ := newClient(t)
	srv.SeedTodo(model.Todo{Title: "todo one"})
	srv.SeedTask(model.Task{Title: "task one"})
	srv.Fail(http.MethodGet, "/api/todos", http.StatusInternalServerError)

	st := Load(context.Background(), c)
	if st.TodoErr == nil {
		t.Fatal("expected todo fetch error")
	}
	if st.TaskErr != nil {
		t.Fatalf("task fetch failed: %v", st.TaskErr)
	}
	items := st.Items()
	if len(items) != 1 || items[0].Title != "task one" {
		t.Errorf("items = %+v", items)
	}
	if st.Unauthorized() {
		t.Error("500 reported as unauthorized")
	}
}

func TestLoadStopsAfterUnauthorized(t *testing.T) {
	c, srv, redirects := newClient(t)
	srv.Fail(http.MethodGet, "/api/todos", http.StatusUnauthorized)

	st := Load(context.Background(), c)
	if !st.Unauthorized() || !errors.Is(st.Err(), api.ErrUnauthorized) {
		t.Fatalf("state errs = %v / %v", st.TodoErr, st.TaskErr)
	}
	if *redirects != 1 {
		t.Errorf("redirects = %d, want 1", *redirects)
	}
	if n := srv.CallsWithPrefix("/api/tasks"); n != 0 {
		t.Errorf("task fetch issued after 401: %d", n)
	}
}

func TestEndToEndAgainstBackend(t *testing.T) {
	c, srv, _ := newClient(t)
	srv.NumericTaskIDs = true
	srv.SeedTodo(model.Todo{Title: "todo"})
	seeded := srv.SeedTask(model.Task{Title: "numeric task"})
	ctx := context.Background()

	st := Load(ctx, c)
	if err := st.Err(); err != nil {
		t.Fatal(err)
	}
	m := NewMutator(c, c)
	srv.ResetCalls()

	ref := model.TaskRef(seeded.ID)
	ch, err := m.Toggle(ctx, ref, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Apply(ch); err != nil {
		t.Fatal(err)
	}
	if it, _ := st.Find(ref); !it.Completed {
		t.Error("task not completed locally")
	}
	if srv.CallsWithPrefix("/api/todos") != 0 || srv.CallsWithPrefix("/api/tasks") != 1 {
		t.Errorf("calls = %+v", srv.Calls())
	}
}

func TestAt(t *testing.T) {
	st := &State{Todos: []model.Todo{{ID: 7, Title: "x"}}, Tasks: []model.Task{{ID: model.NewTaskID("k"), Title: "y"}}}
	it, err := st.At(2)
	if err != nil || it.Ref.Key() != "task:k" {
		t.Errorf("At(2) = %v, %v", it.Ref, err)
	}
	if _, err := st.At(3); err == nil {
		t.Error("At(3) should be out of range")
	}
}
