package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any *Error carrying a 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMissingToken is returned when login/register succeed without an
	// access_token in the body.
	ErrMissingToken = errors.New("access_token not found in response")
)

// Error is a non-2xx response from the backend.
type Error struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s %s: %d %s", e.Op, e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// maxDetail caps a raw body used as a detail, in runes.
const maxDetail = 200

// detailOf pulls the FastAPI-style {"detail": ...} message out of a body,
// falling back to the trimmed body text.
func detailOf(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Detail) > 0 {
		var s string
		if err := json.Unmarshal(env.Detail, &s); err == nil {
			return s
		}
		return string(env.Detail)
	}
	s := string(body)
	if r := []rune(s); len(r) > maxDetail {
		s = string(r[:maxDetail]) + "…"
	}
	return strings.TrimSpace(s)
}
