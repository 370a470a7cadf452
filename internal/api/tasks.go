package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/idilsaglam/evotodo/internal/model"
)

func taskPath(id model.TaskID) string { return "/api/tasks/" + url.PathEscape(id.String()) }

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	var out []model.Task
	if err := c.do(ctx, "list tasks", http.MethodGet, "/api/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, "create task", http.MethodPost, "/api/tasks", in, &out)
	return out, err
}

func (c *Client) UpdateTask(ctx context.Context, id model.TaskID, in model.TaskUpdate) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, "update task", http.MethodPut, taskPath(id), in, &out)
	return out, err
}

// CompleteTask marks a task completed. The backend has no reverse endpoint;
// reopening goes through UpdateTask with status pending.
func (c *Client) CompleteTask(ctx context.Context, id model.TaskID) (model.Task, error) {
	var out model.Task
	err := c.do(ctx, "complete task", http.MethodPatch, taskPath(id)+"/complete", nil, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id model.TaskID) error {
	return c.do(ctx, "delete task", http.MethodDelete, taskPath(id), nil, nil)
}
