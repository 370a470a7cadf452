package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/idilsaglam/evotodo/internal/session"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates and stores the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Token, error) {
	return c.authenticate(ctx, "login", "/api/auth/login", Credentials{Email: email, Password: password})
}

// Register creates the account and stores the returned token.
func (c *Client) Register(ctx context.Context, email, password string) (*session.Token, error) {
	return c.authenticate(ctx, "register", "/api/auth/register", Credentials{Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, op, path string, creds Credentials) (*session.Token, error) {
	var resp AuthResponse
	if err := c.do(ctx, op, http.MethodPost, path, creds, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}
	tok := session.NewToken(resp.AccessToken, resp.TokenType)
	if err := c.store.Set(tok); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tok, nil
}

// Logout forgets the stored token. The backend keeps no session.
func (c *Client) Logout() error {
	return c.store.Clear()
}

func (c *Client) IsAuthenticated() bool {
	tok, err := c.store.Get()
	return err == nil && tok != nil && tok.AccessToken != ""
}

// Token returns the stored token, or nil.
func (c *Client) Token() (*session.Token, error) {
	return c.store.Get()
}
