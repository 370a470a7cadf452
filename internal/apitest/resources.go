package apitest

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/evotodo/internal/model"
)

func now() *model.Time { return model.NewTime(time.Now().UTC().Truncate(time.Second)) }

// todos

func (s *Server) listTodos(c *gin.Context) {
	c.JSON(http.StatusOK, s.Todos())
}

func (s *Server) createTodo(c *gin.Context) {
	var req model.TodoCreate
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		detail(c, http.StatusUnprocessableEntity, "title is required")
		return
	}
	s.mu.Lock()
	t := model.Todo{
		ID:          s.nextTodo,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		UserID:      userID(c),
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	s.nextTodo++
	s.todos = append(s.todos, t)
	s.mu.Unlock()
	c.JSON(http.StatusOK, t)
}

func (s *Server) todoIndex(c *gin.Context) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid id")
		return 0, false
	}
	for i, t := range s.todos {
		if t.ID == id {
			return i, true
		}
	}
	detail(c, http.StatusNotFound, "Todo not found")
	return 0, false
}

func (s *Server) updateTodo(c *gin.Context) {
	var req model.TodoUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.todoIndex(c)
	if !ok {
		return
	}
	t := &s.todos[i]
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	t.UpdatedAt = now()
	c.JSON(http.StatusOK, *t)
}

func (s *Server) toggleTodo(c *gin.Context) {
	var req struct {
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Completed == nil {
		detail(c, http.StatusUnprocessableEntity, "completed is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.todoIndex(c)
	if !ok {
		return
	}
	s.todos[i].Completed = *req.Completed
	s.todos[i].UpdatedAt = now()
	c.JSON(http.StatusOK, s.todos[i])
}

func (s *Server) deleteTodo(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.todoIndex(c)
	if !ok {
		return
	}
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Todo deleted successfully"})
}

// tasks

func (s *Server) listTasks(c *gin.Context) {
	c.JSON(http.StatusOK, s.Tasks())
}

func (s *Server) createTask(c *gin.Context) {
	var req model.TaskCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.Priority == nil {
		p := model.PriorityMedium
		req.Priority = &p
	}
	s.mu.Lock()
	t := model.Task{
		ID:          s.newTaskID(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		UserID:      userID(c),
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, t)
}

func (s *Server) taskIndex(c *gin.Context) (int, bool) {
	id := c.Param("id")
	for i, t := range s.tasks {
		if t.ID.String() == id {
			return i, true
		}
	}
	detail(c, http.StatusNotFound, "Task not found")
	return 0, false
}

func (s *Server) updateTask(c *gin.Context) {
	var req model.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.taskIndex(c)
	if !ok {
		return
	}
	t := &s.tasks[i]
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Priority != nil {
		t.Priority = req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	if req.Status != nil {
		t.Status = *req.Status
		if t.Status == model.StatusCompleted {
			t.CompletedAt = now()
		} else {
			t.CompletedAt = nil
		}
	}
	t.UpdatedAt = now()
	c.JSON(http.StatusOK, *t)
}

func (s *Server) completeTask(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.taskIndex(c)
	if !ok {
		return
	}
	s.tasks[i].Status = model.StatusCompleted
	s.tasks[i].CompletedAt = now()
	s.tasks[i].UpdatedAt = now()
	c.JSON(http.StatusOK, s.tasks[i])
}

func (s *Server) deleteTask(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.taskIndex(c)
	if !ok {
		return
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	c.Status(http.StatusNoContent)
}

// chat

func (s *Server) chat(c *gin.Context) {
	var req struct {
		UserInput string `json:"user_input"`
		UserID    string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.UserInput == "" {
		detail(c, http.StatusUnprocessableEntity, "user_input is required")
		return
	}
	resp := gin.H{
		"response":         "I can help you manage your tasks.",
		"intent":           "general",
		"state_reflection": gin.H{"user_id": req.UserID},
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	}
	if title, ok := strings.CutPrefix(req.UserInput, "add "); ok {
		s.mu.Lock()
		t := model.Task{ID: s.newTaskID(), Title: title, Status: model.StatusPending, UserID: userID(c), CreatedAt: now()}
		s.tasks = append(s.tasks, t)
		s.mu.Unlock()
		resp["response"] = "Added task: " + title
		resp["intent"] = "add_task"
		resp["tool_execution_result"] = gin.H{"tool": "add_task", "task_id": t.ID}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) chatHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "chat", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}
