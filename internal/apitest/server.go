// Package apitest runs an in-memory backend that honours the REST contract
// the client consumes, and records every call it receives.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/idilsaglam/evotodo/internal/model"
)

// Call is one request as the server saw it. Route is the gin pattern,
// e.g. "/api/tasks/:id".
type Call struct {
	Method string
	Path   string
	Route  string
	Auth   string
}

type user struct {
	id   int64
	hash []byte
}

type Server struct {
	*httptest.Server

	// NumericTaskIDs makes created tasks carry JSON-number ids.
	NumericTaskIDs bool

	mu       sync.Mutex
	key      []byte
	users    map[string]user
	todos    []model.Todo
	tasks    []model.Task
	nextTodo int64
	nextTask int64
	nextUser int64
	calls    []Call
	failures map[string]int
}

// New starts a server and stops it when the test ends.
func New(tb testing.TB) *Server {
	tb.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		key:      []byte("apitest-signing-key"),
		users:    map[string]user{},
		failures: map[string]int{},
		nextTodo: 1,
		nextTask: 1,
		nextUser: 1,
	}

	r := gin.New()
	r.Use(s.record, s.inject)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
	}

	api := r.Group("/api", s.requireToken)
	{
		api.GET("/todos", s.listTodos)
		api.POST("/todos", s.createTodo)
		api.PUT("/todos/:id", s.updateTodo)
		api.PATCH("/todos/:id", s.toggleTodo)
		api.DELETE("/todos/:id", s.deleteTodo)

		api.GET("/tasks", s.listTasks)
		api.POST("/tasks", s.createTask)
		api.PUT("/tasks/:id", s.updateTask)
		api.PATCH("/tasks/:id/complete", s.completeTask)
		api.DELETE("/tasks/:id", s.deleteTask)

		api.POST("/v1/chat/", s.chat)
	}
	r.GET("/api/v1/chat/health", s.chatHealth)

	s.Server = httptest.NewServer(r)
	tb.Cleanup(s.Close)
	return s
}

// Fail forces every later request matching method and route to answer with
// status.
func (s *Server) Fail(method, route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+route] = status
}

// Heal removes all forced failures.
func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]int{}
}

// Token issues a valid bearer token for a fresh user id.
func (s *Server) Token() string {
	s.mu.Lock()
	id := s.nextUser
	s.nextUser++
	s.mu.Unlock()
	tok, err := s.sign(id)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) SeedTodo(t model.Todo) model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextTodo
	}
	if t.ID >= s.nextTodo {
		s.nextTodo = t.ID + 1
	}
	s.todos = append(s.todos, t)
	return t
}

func (s *Server) SeedTask(t model.Task) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = s.newTaskID()
	}
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	s.tasks = append(s.tasks, t)
	return t
}

func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

func (s *Server) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Task(nil), s.tasks...)
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsWithPrefix counts recorded calls whose path starts with prefix.
func (s *Server) CallsWithPrefix(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) newTaskID() model.TaskID {
	n := s.nextTask
	s.nextTask++
	if s.NumericTaskIDs {
		return model.NumericTaskID(n)
	}
	return model.NewTaskID(fmt.Sprintf("task-%d", n))
}

func (s *Server) sign(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString(s.key)
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// middleware

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Route:  c.FullPath(),
		Auth:   c.GetHeader("Authorization"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) inject(c *gin.Context) {
	s.mu.Lock()
	status, ok := s.failures[c.Request.Method+" "+c.FullPath()]
	s.mu.Unlock()
	if ok {
		detail(c, status, "forced failure")
		return
	}
	c.Next()
}

func (s *Server) requireToken(c *gin.Context) {
	h := c.GetHeader("Authorization")
	if len(h) < 8 || !strings.EqualFold(h[:7], "Bearer ") {
		detail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}
	token, err := jwt.Parse(h[7:], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.key, nil
	})
	if err != nil || !token.Valid {
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	sub, _ := token.Claims.GetSubject()
	uid, _ := strconv.ParseInt(sub, 10, 64)
	c.Set("user_id", uid)
	c.Next()
}

// auth

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		detail(c, http.StatusInternalServerError, "internal error")
		return
	}
	s.mu.Lock()
	if _, exists := s.users[req.Email]; exists {
		s.mu.Unlock()
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	}
	id := s.nextUser
	s.nextUser++
	s.users[req.Email] = user{id: id, hash: hashed}
	s.mu.Unlock()
	s.issue(c, id)
}

func (s *Server) login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	u, ok := s.users[req.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(u.hash, []byte(req.Password)) != nil {
		detail(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	s.issue(c, u.id)
}

func (s *Server) issue(c *gin.Context, id int64) {
	tok, err := s.sign(id)
	if err != nil {
		detail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": tok, "token_type": "bearer"})
}

func userID(c *gin.Context) int64 {
	return c.GetInt64("user_id")
}
