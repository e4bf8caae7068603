// Package nav tracks the UI's location as the gateway sees it: the path the
// SPA last navigated to, and any forced redirect (replace semantics) pushed
// by the gateway, e.g. the central 401 handling.
package nav

import "sync"

// Location is a thread-safe holder of the current path and a pending
// replace-redirect. The SPA reports its path on every navigation check and
// picks up the pending redirect, if any, from the same response.
type Location struct {
	mu       sync.Mutex
	current  string
	redirect string
}

// New creates a Location starting at the given path ("/" when unknown).
func New(start string) *Location {
	if start == "" {
		start = "/"
	}
	return &Location{current: start}
}

// Current returns the path the UI is on.
func (l *Location) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Visit records that the UI navigated to path.
func (l *Location) Visit(path string) {
	if path == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.current = path
}

// Replace forces a redirect to path. The UI must not keep a history entry
// for the page it is leaving.
func (l *Location) Replace(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.redirect = path
	l.current = path
}

// PendingRedirect returns and clears the forced redirect, if one is set.
func (l *Location) PendingRedirect() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.redirect == "" {
		return "", false
	}
	r := l.redirect
	l.redirect = ""
	return r, true
}
