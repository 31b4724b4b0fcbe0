package capture

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

// EmptyRedirectMarker is appended by the relay page when the redirect carried
// neither a query nor a fragment.
const EmptyRedirectMarker = "capture_empty=1"

const shutdownTimeout = 5 * time.Second

// Launcher shows a URL to the user, usually by opening the system browser.
type Launcher func(url string) error

// LoopbackOption configures a Loopback adapter.
type LoopbackOption func(*Loopback)

// WithLauncher replaces the system browser launcher.
func WithLauncher(launch Launcher) LoopbackOption {
	return func(lb *Loopback) {
		lb.launch = launch
	}
}

// WithLogger sets the logger used for capture diagnostics.
func WithLogger(logger zerolog.Logger) LoopbackOption {
	return func(lb *Loopback) {
		lb.logger = logger
	}
}

// WithListener makes Open serve on an already bound listener instead of
// binding the redirect URI's host and port.
func WithListener(ln net.Listener) LoopbackOption {
	return func(lb *Loopback) {
		lb.listener = ln
	}
}

// Loopback captures redirects with a short lived HTTP server bound to the redirect
// URI's host and port (RFC 8252 section 7.3). Fragment responses are relayed to
// the server by a small page that moves the fragment into the query.
type Loopback struct {
	launch   Launcher
	logger   zerolog.Logger
	listener net.Listener
}

// NewLoopback creates a loopback adapter that opens the system browser.
func NewLoopback(opts ...LoopbackOption) *Loopback {
	lb := &Loopback{
		launch: browser.OpenURL,
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(lb)
	}
	return lb
}

// Open starts the redirect listener and launches target.
func (lb *Loopback) Open(ctx context.Context, target, redirectURI string, l Listener) (Handle, error) {
	redirect, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("[Loopback.Open] invalid redirect uri: %w", err)
	}
	if redirect.Scheme != "http" {
		return nil, fmt.Errorf("[Loopback.Open] redirect uri must use http, got %q: %w", redirect.Scheme, ErrPopupBlocked)
	}

	ln := lb.listener
	if ln == nil {
		addr := redirect.Host
		if redirect.Port() == "" {
			addr = net.JoinHostPort(redirect.Hostname(), "80")
		}
		ln, err = net.Listen("tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("[Loopback.Open] cannot listen on %s: %v: %w", addr, err, ErrPopupBlocked)
		}
	}

	s := &loopbackSession{
		emitter:  newEmitter(l),
		redirect: redirect,
		logger:   lb.logger.With().Str("redirect_uri", redirectURI).Logger(),
		done:     make(chan struct{}),
	}
	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("redirect listener stopped")
		}
	}()

	if err := lb.launch(target); err != nil {
		s.emitter.detach()
		s.shutdown()
		_ = ln.Close()
		return nil, fmt.Errorf("[Loopback.Open] cannot launch %q: %v: %w", target, err, ErrPopupBlocked)
	}
	s.logger.Debug().Str("addr", ln.Addr().String()).Msg("waiting for redirect")

	go func() {
		select {
		case <-ctx.Done():
			if s.emitter.close() {
				s.logger.Debug().Msg("capture cancelled before a redirect was received")
			}
			_ = s.Close()
		case <-s.done:
		}
	}()
	return s, nil
}

type loopbackSession struct {
	emitter  *emitter
	redirect *url.URL
	server   *http.Server
	logger   zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func (s *loopbackSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	received := url.URL{
		Scheme:   s.redirect.Scheme,
		Host:     s.redirect.Host,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}
	if !MatchesRedirect(received.String(), s.redirectURI()) {
		http.NotFound(w, r)
		return
	}

	// The browser never sends the fragment, so a request that carries only the
	// redirect URI's own query gets the relay page.
	if r.URL.RawQuery == s.redirect.RawQuery {
		s.render(w, "relay.html", map[string]string{
			"Title":       "Signing in",
			"EmptyMarker": EmptyRedirectMarker,
		})
		return
	}

	if !s.emitter.match(received.String()) {
		s.render(w, "done.html", map[string]string{
			"Title":   "Sign in already completed",
			"Message": "You can close this window.",
		})
		return
	}
	s.logger.Debug().Msg("redirect received")
	s.render(w, "done.html", map[string]string{
		"Title":   "Sign in complete",
		"Message": "You can close this window and return to the application.",
	})
}

// redirectURI is the configured redirect URI in the form the server sees it,
// with an empty path served as "/".
func (s *loopbackSession) redirectURI() string {
	u := *s.redirect
	u.Fragment, u.RawFragment = "", ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

func (s *loopbackSession) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := parseTemplate(name)
	if err != nil {
		http.Error(w, "Failed to load page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Warn().Err(err).Str("template", name).Msg("failed to render page")
	}
}

// Close detaches the listener and stops the redirect server.
func (s *loopbackSession) Close() error {
	s.emitter.detach()
	s.closeOnce.Do(func() {
		close(s.done)
		go s.shutdown()
	})
	return nil
}

func (s *loopbackSession) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("redirect listener shutdown")
	}
}

func parseTemplate(name string) (*template.Template, error) {
	content, err := fs.ReadFile(templateFiles, "templates/"+name)
	if err != nil {
		return nil, err
	}
	return template.New(name).Parse(string(content))
}
