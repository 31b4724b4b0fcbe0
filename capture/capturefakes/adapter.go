// Package capturefakes provides a scripted capture.Adapter for tests.
package capturefakes

import (
	"context"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-oauth-authorizer/capture"
)

// Respond scripts what the user does once the authorization URL is shown.
// It runs on its own goroutine and may call the listener any number of times.
type Respond func(authURL *url.URL, l capture.Listener)

// Adapter records opened sessions and replays a Respond script for each one.
type Adapter struct {
	Respond Respond
	OpenErr error

	mu      sync.Mutex
	targets []string
	handles []*Handle
	wg      sync.WaitGroup
}

var _ capture.Adapter = (*Adapter)(nil)

// Open records target and starts the script.
func (a *Adapter) Open(_ context.Context, target, _ string, l capture.Listener) (capture.Handle, error) {
	a.mu.Lock()
	a.targets = append(a.targets, target)
	a.mu.Unlock()
	if a.OpenErr != nil {
		return nil, a.OpenErr
	}

	h := &Handle{}
	a.mu.Lock()
	a.handles = append(a.handles, h)
	a.mu.Unlock()

	authURL, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if a.Respond != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.Respond(authURL, l)
		}()
	}
	return h, nil
}

// Targets returns the authorization URLs opened so far.
func (a *Adapter) Targets() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.targets...)
}

// Handles returns the handles created so far.
func (a *Adapter) Handles() []*Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Handle(nil), a.handles...)
}

// Wait blocks until every started script has returned.
func (a *Adapter) Wait() {
	a.wg.Wait()
}

// Handle counts Close calls.
type Handle struct {
	mu     sync.Mutex
	closed int
}

func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

// Closed reports whether Close was called.
func (h *Handle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed > 0
}

// RedirectQuery navigates to redirectURI with the query built by params.
func RedirectQuery(redirectURI string, params func(authURL *url.URL) url.Values) Respond {
	return func(authURL *url.URL, l capture.Listener) {
		l.OnMatch(redirectURI + "?" + params(authURL).Encode())
	}
}

// RedirectFragment navigates to redirectURI with the fragment built by params.
func RedirectFragment(redirectURI string, params func(authURL *url.URL) url.Values) Respond {
	return func(authURL *url.URL, l capture.Listener) {
		l.OnMatch(redirectURI + "#" + params(authURL).Encode())
	}
}

// Navigate navigates to a fixed URL.
func Navigate(rawURL string) Respond {
	return func(_ *url.URL, l capture.Listener) {
		l.OnMatch(rawURL)
	}
}

// CloseWindow closes the surface without navigating.
func CloseWindow() Respond {
	return func(_ *url.URL, l capture.Listener) {
		l.OnClose()
	}
}

// Never leaves the surface open.
func Never() Respond {
	return func(*url.URL, capture.Listener) {}
}

// EchoState copies the request's state into the redirect alongside extra.
func EchoState(extra url.Values) func(authURL *url.URL) url.Values {
	return func(authURL *url.URL) url.Values {
		v := url.Values{}
		for k, vals := range extra {
			v[k] = append([]string(nil), vals...)
		}
		v.Set("state", authURL.Query().Get("state"))
		return v
	}
}
