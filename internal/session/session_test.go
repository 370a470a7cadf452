package session

import (
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestNewTokenReadsJWTClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signed(t, jwt.MapClaims{"sub": "17", "exp": exp.Unix()})

	tok := NewToken("Bearer "+raw, "bearer")
	if tok.AccessToken != raw {
		t.Errorf("bearer prefix not stripped: %q", tok.AccessToken)
	}
	if tok.ExpiresAt == nil || !tok.ExpiresAt.Equal(exp) {
		t.Errorf("expires = %v, want %v", tok.ExpiresAt, exp)
	}
	if tok.Subject() != "17" {
		t.Errorf("subject = %q", tok.Subject())
	}
	if tok.Expired(time.Now()) {
		t.Error("fresh token reported expired")
	}
	if !tok.Expired(exp.Add(time.Minute)) {
		t.Error("token past exp not reported expired")
	}
}

func TestOpaqueToken(t *testing.T) {
	tok := NewToken("opaque-value", "")
	if tok.ExpiresAt != nil || tok.Subject() != "" {
		t.Errorf("opaque token decoded claims: %+v", tok)
	}
	req, _ := http.NewRequest(http.MethodGet, "http://example.invalid", nil)
	tok.OAuth2().SetAuthHeader(req)
	if got := req.Header.Get("Authorization"); got != "Bearer opaque-value" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(nil)
	if tok, err := s.Get(); err != nil || tok != nil {
		t.Fatalf("empty store Get = %v, %v", tok, err)
	}
	if err := s.Set(&Token{}); !errors.Is(err, ErrEmptyToken) {
		t.Errorf("Set(empty) err = %v", err)
	}
	if err := s.Set(NewToken("abc", "")); err != nil {
		t.Fatal(err)
	}
	tok, _ := s.Get()
	if tok == nil || tok.AccessToken != "abc" || tok.Source != "memory" {
		t.Fatalf("Get = %+v", tok)
	}
	_ = s.Clear()
	if tok, _ := s.Get(); tok != nil {
		t.Errorf("after Clear Get = %+v", tok)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Setenv(EnvToken, "")
	s := NewFileStore(filepath.Join(t.TempDir(), ".evotodo", "credentials.json"))

	if tok, err := s.Get(); err != nil || tok != nil {
		t.Fatalf("fresh store Get = %v, %v", tok, err)
	}
	if err := s.Set(NewToken("bearer file-token", "bearer")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	tok, err := s.Get()
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "file-token" || tok.Source != "file" {
		t.Errorf("Get = %+v", tok)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Get(); tok != nil {
		t.Errorf("after Clear Get = %+v", tok)
	}
}

func TestFileStoreEnvOverrideSuppressedAfterClear(t *testing.T) {
	t.Setenv(EnvToken, "env-token")
	s := NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	tok, err := s.Get()
	if err != nil || tok == nil || tok.Source != "env" || tok.AccessToken != "env-token" {
		t.Fatalf("Get = %+v, %v", tok, err)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.Get(); tok != nil {
		t.Errorf("env token still visible after Clear: %+v", tok)
	}
}
