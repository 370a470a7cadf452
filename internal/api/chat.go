package api

import (
	"context"
	"net/http"
)

type ChatRequest struct {
	UserInput       string         `json:"user_input"`
	UserID          string         `json:"user_id"`
	SessionMetadata map[string]any `json:"session_metadata,omitempty"`
}

type ChatResponse struct {
	Response            string         `json:"response"`
	Intent              string         `json:"intent"`
	StateReflection     map[string]any `json:"state_reflection"`
	ToolExecutionResult map[string]any `json:"tool_execution_result,omitempty"`
	Timestamp           string         `json:"timestamp"`
}

// MutatedTasks reports whether the assistant ran a tool, in which case the
// task list should be refetched.
func (r ChatResponse) MutatedTasks() bool { return len(r.ToolExecutionResult) > 0 }

func (c *Client) Chat(ctx context.Context, in ChatRequest) (ChatResponse, error) {
	var out ChatResponse
	err := c.do(ctx, "chat", http.MethodPost, "/api/v1/chat/", in, &out)
	return out, err
}

type ChatHealth struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) ChatHealth(ctx context.Context) (ChatHealth, error) {
	var out ChatHealth
	err := c.do(ctx, "chat health", http.MethodGet, "/api/v1/chat/health", nil, &out)
	return out, err
}
