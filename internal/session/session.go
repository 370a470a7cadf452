// Package session holds the bearer token the resource client attaches to
// every call. The store is injected so tests can run against memory.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Store is the session capability: read, replace, forget.
type Store interface {
	// Get returns nil, nil when no one is signed in.
	Get() (*Token, error)
	Set(*Token) error
	Clear() error
}

type Token struct {
	AccessToken string     `json:"token"`
	TokenType   string     `json:"token_type,omitempty"`
	Source      string     `json:"source"`     // "env" | "file" | "memory"
	CreatedAt   time.Time  `json:"created_at"` // when we saved it
	ExpiresAt   *time.Time `json:"expires_at"` // from the JWT exp claim when present
}

// NewToken normalizes a raw token ("Bearer xyz" or "xyz") and reads its
// expiry from the JWT payload when it is one.
func NewToken(raw, tokenType string) *Token {
	t := &Token{
		AccessToken: stripBearer(strings.TrimSpace(raw)),
		TokenType:   tokenType,
		CreatedAt:   time.Now(),
	}
	if claims, ok := t.Claims(); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			e := exp.Time
			t.ExpiresAt = &e
		}
	}
	return t
}

// Claims decodes the JWT payload without verifying the signature. Only the
// backend can verify; the client reads exp/sub for display.
func (t *Token) Claims() (jwt.MapClaims, bool) {
	if t == nil || strings.Count(t.AccessToken, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// Subject returns the "sub" claim, or "" for opaque tokens.
func (t *Token) Subject() string {
	claims, ok := t.Claims()
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

func (t *Token) Expired(now time.Time) bool {
	return t != nil && t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// OAuth2 adapts the token for header handling. The type defaults to Bearer.
func (t *Token) OAuth2() *oauth2.Token {
	ot := &oauth2.Token{AccessToken: t.AccessToken, TokenType: t.TokenType}
	if t.ExpiresAt != nil {
		ot.Expiry = *t.ExpiresAt
	}
	return ot
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu  sync.Mutex
	tok *Token
}

func NewMemoryStore(t *Token) *MemoryStore {
	if t != nil {
		t.Source = "memory"
	}
	return &MemoryStore{tok: t}
}

func (m *MemoryStore) Get() (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tok == nil {
		return nil, nil
	}
	cp := *m.tok
	return &cp, nil
}

func (m *MemoryStore) Set(t *Token) error {
	if t == nil || t.AccessToken == "" {
		return ErrEmptyToken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.Source = "memory"
	m.tok = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tok = nil
	return nil
}
