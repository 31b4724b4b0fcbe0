// Package capture defines the redirect capture boundary: something that presents
// the authorization URL to the user on a surface the authorizer does not render,
// and reports back the navigation to the redirect URI.
package capture

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrPopupBlocked is returned by Open when no interactive surface could be created.
var ErrPopupBlocked = errors.New("authorization surface could not be opened")

// Listener receives the outcome of one interactive session. An adapter calls
// exactly one of the two functions, at most once, per opened handle.
type Listener struct {
	// OnMatch receives the full URL of the first navigation that starts with the redirect URI.
	OnMatch func(rawURL string)
	// OnClose is called when the surface went away before a matching navigation.
	OnClose func()
}

// Handle is an opened interactive session.
type Handle interface {
	// Close releases the surface and detaches the listener. No events are
	// delivered after Close returns.
	Close() error
}

// Adapter opens interactive sessions.
type Adapter interface {
	// Open presents target and watches for a navigation to redirectURI.
	// It fails with an error wrapping ErrPopupBlocked when no surface could be created.
	Open(ctx context.Context, target, redirectURI string, l Listener) (Handle, error)
}

// MatchesRedirect reports whether rawURL is a navigation to redirectURI.
func MatchesRedirect(rawURL, redirectURI string) bool {
	return redirectURI != "" && strings.HasPrefix(rawURL, redirectURI)
}

// emitter enforces the one event per handle contract for adapter implementations.
type emitter struct {
	mu       sync.Mutex
	listener Listener
	done     bool
}

func newEmitter(l Listener) *emitter {
	return &emitter{listener: l}
}

// match delivers OnMatch unless an event was already delivered or the emitter was detached.
func (e *emitter) match(rawURL string) bool {
	if !e.claim() {
		return false
	}
	if e.listener.OnMatch != nil {
		e.listener.OnMatch(rawURL)
	}
	return true
}

// close delivers OnClose unless an event was already delivered or the emitter was detached.
func (e *emitter) close() bool {
	if !e.claim() {
		return false
	}
	if e.listener.OnClose != nil {
		e.listener.OnClose()
	}
	return true
}

// detach stops all further events.
func (e *emitter) detach() {
	e.claim()
}

func (e *emitter) claim() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.done {
		return false
	}
	e.done = true
	return true
}
