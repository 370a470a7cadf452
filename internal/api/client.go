// Package api is the resource client for the todo/task backend: auth,
// both resource families and the chat assistant. Calls are fire-once; the
// only global policy is the 401 teardown.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/idilsaglam/evotodo/internal/session"
)

const RequestIDHeader = "X-Request-Id"

// Destination is an entry point the client can send the user to.
type Destination string

const (
	DestSignIn Destination = "signin"
	DestSignUp Destination = "signup"
)

// Navigator moves the user to an entry point (a CLI hint, a TUI screen).
type Navigator interface {
	Navigate(Destination)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(Destination)

func (f NavigatorFunc) Navigate(d Destination) { f(d) }

type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	nav     Navigator
	log     *log.Logger
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient. No timeout is imposed here.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

func WithNavigator(n Navigator) Option { return func(c *Client) { c.nav = n } }

func WithLogger(l *log.Logger) Option { return func(c *Client) { c.log = l } }

func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		store:   store,
		nav:     NavigatorFunc(func(Destination) {}),
		log:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// do issues one request. body and out may be nil.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	rid := uuid.NewString()
	req.Header.Set(RequestIDHeader, rid)

	tok, err := c.store.Get()
	if err != nil {
		c.log.Warn("session unreadable, sending without token", "err", err)
	} else if tok != nil && tok.AccessToken != "" {
		tok.OAuth2().SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "op", op, "method", method, "path", path, "request_id", rid, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}
	c.log.Debug("request", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "request_id", rid, "took", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown()
		return &Error{Op: op, Method: method, Path: path, StatusCode: resp.StatusCode, Detail: detailOf(data)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Method: method, Path: path, StatusCode: resp.StatusCode, Detail: detailOf(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// teardown runs once per 401 response: forget the token, go to sign-in.
func (c *Client) teardown() {
	if err := c.store.Clear(); err != nil {
		c.log.Error("clear session after 401", "err", err)
	}
	c.nav.Navigate(DestSignIn)
}
