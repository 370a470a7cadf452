package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/idilsaglam/evotodo/internal/model"
)

func todoPath(id int64) string { return "/api/todos/" + strconv.FormatInt(id, 10) }

func (c *Client) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var out []model.Todo
	if err := c.do(ctx, "list todos", http.MethodGet, "/api/todos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTodo(ctx context.Context, in model.TodoCreate) (model.Todo, error) {
	var out model.Todo
	err := c.do(ctx, "create todo", http.MethodPost, "/api/todos", in, &out)
	return out, err
}

func (c *Client) UpdateTodo(ctx context.Context, id int64, in model.TodoUpdate) (model.Todo, error) {
	var out model.Todo
	err := c.do(ctx, "update todo", http.MethodPut, todoPath(id), in, &out)
	return out, err
}

// SetTodoCompleted is the PATCH toggle endpoint.
func (c *Client) SetTodoCompleted(ctx context.Context, id int64, completed bool) (model.Todo, error) {
	var out model.Todo
	body := struct {
		Completed bool `json:"completed"`
	}{completed}
	err := c.do(ctx, "toggle todo", http.MethodPatch, todoPath(id), body, &out)
	return out, err
}

func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	return c.do(ctx, "delete todo", http.MethodDelete, todoPath(id), nil, nil)
}
