// Package theme persists the visitor's colour scheme choice.
package theme

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Mode is a stored preference. System defers to the browser.
type Mode string

const (
	Light  Mode = "light"
	Dark   Mode = "dark"
	System Mode = "system"
)

// ErrInvalidMode is returned for anything other than light, dark or
// system.
var ErrInvalidMode = errors.New("theme: invalid mode")

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Light, Dark, System:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Store reads and writes the preference.
type Store interface {
	Get(r *http.Request) Mode
	Set(w http.ResponseWriter, m Mode)
}

// HintHeader carries the browser's own preference when it sends one.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// Resolve turns a preference into the scheme to render. System follows
// the client hint and falls back to light.
func Resolve(m Mode, hint string) Mode {
	if m == Light || m == Dark {
		return m
	}
	if strings.EqualFold(strings.Trim(hint, `" `), string(Dark)) {
		return Dark
	}
	return Light
}

// Next is the scheme the toggle button switches to.
func Next(resolved Mode) Mode {
	if resolved == Dark {
		return Light
	}
	return Dark
}

// CookieStore keeps the preference in a cookie.
type CookieStore struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// NewCookieStore returns a store using the "theme" cookie for a year.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{Name: "theme", MaxAge: 365 * 24 * time.Hour, Secure: secure}
}

// Get returns the stored mode, or System when there is none or it is
// unreadable.
func (s *CookieStore) Get(r *http.Request) Mode {
	c, err := r.Cookie(s.Name)
	if err != nil {
		return System
	}
	m, err := ParseMode(c.Value)
	if err != nil {
		return System
	}
	return m
}

// Set stores m.
func (s *CookieStore) Set(w http.ResponseWriter, m Mode) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.Name,
		Value:    string(m),
		Path:     "/",
		MaxAge:   int(s.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
