package capture_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-oauth-authorizer/capture"
)

type events struct {
	matched chan string
	closed  chan struct{}
}

func newEvents() *events {
	return &events{matched: make(chan string, 4), closed: make(chan struct{}, 4)}
}

func (e *events) listener() capture.Listener {
	return capture.Listener{
		OnMatch: func(rawURL string) { e.matched <- rawURL },
		OnClose: func() { e.closed <- struct{}{} },
	}
}

// openLoopback starts a loopback capture on a free port and returns its redirect URI.
func openLoopback(t *testing.T, ctx context.Context, launch capture.Launcher, l capture.Listener) (capture.Handle, string) {
	t.Helper()
	return openLoopbackAt(t, ctx, "/callback", launch, l)
}

func openLoopbackAt(t *testing.T, ctx context.Context, pathAndQuery string, launch capture.Launcher, l capture.Listener) (capture.Handle, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	redirectURI := "http://" + ln.Addr().String() + pathAndQuery

	lb := capture.NewLoopback(
		capture.WithListener(ln),
		capture.WithLauncher(launch),
		capture.WithLogger(zerolog.Nop()),
	)
	h, err := lb.Open(ctx, "https://auth.example.com/authorize?state=s", redirectURI, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h, redirectURI
}

func get(t *testing.T, rawURL string) (int, string) {
	t.Helper()
	res, err := http.Get(rawURL)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestLoopback(t *testing.T) {
	t.Run("launches the authorization url", func(t *testing.T) {
		var launched string
		e := newEvents()
		openLoopback(t, context.Background(), func(u string) error {
			launched = u
			return nil
		}, e.listener())
		require.Equal(t, "https://auth.example.com/authorize?state=s", launched)
	})

	t.Run("query redirect matches once", func(t *testing.T) {
		e := newEvents()
		_, redirectURI := openLoopback(t, context.Background(), func(string) error { return nil }, e.listener())

		status, body := get(t, redirectURI+"?code=abc&state=s")
		require.Equal(t, http.StatusOK, status)
		require.Contains(t, body, "Sign in complete")

		select {
		case got := <-e.matched:
			require.Equal(t, redirectURI+"?code=abc&state=s", got)
			require.True(t, capture.MatchesRedirect(got, redirectURI))
		case <-time.After(time.Second):
			t.Fatal("no match reported")
		}

		_, body = get(t, redirectURI+"?code=other&state=s")
		require.Contains(t, body, "already completed")
		require.Empty(t, e.matched)
		require.Empty(t, e.closed)
	})

	t.Run("bare redirect serves the relay page", func(t *testing.T) {
		e := newEvents()
		_, redirectURI := openLoopback(t, context.Background(), func(string) error { return nil }, e.listener())

		status, body := get(t, redirectURI)
		require.Equal(t, http.StatusOK, status)
		require.Contains(t, body, "location.replace")
		require.Empty(t, e.matched)
	})

	t.Run("other paths are not found", func(t *testing.T) {
		e := newEvents()
		_, redirectURI := openLoopback(t, context.Background(), func(string) error { return nil }, e.listener())

		status, _ := get(t, strings.TrimSuffix(redirectURI, "/callback")+"/favicon.ico")
		require.Equal(t, http.StatusNotFound, status)
		require.Empty(t, e.matched)
	})

	t.Run("redirect uri with its own query", func(t *testing.T) {
		e := newEvents()
		_, redirectURI := openLoopbackAt(t, context.Background(), "/callback?tenant=t1", func(string) error { return nil }, e.listener())
		base := strings.TrimSuffix(redirectURI, "?tenant=t1")

		status, body := get(t, redirectURI)
		require.Equal(t, http.StatusOK, status)
		require.Contains(t, body, "window.location.search")
		require.Empty(t, e.matched)

		status, _ = get(t, base+"?code=abc&state=s")
		require.Equal(t, http.StatusNotFound, status)
		require.Empty(t, e.matched)

		status, _ = get(t, redirectURI+"&code=abc&state=s")
		require.Equal(t, http.StatusOK, status)
		select {
		case got := <-e.matched:
			require.Equal(t, redirectURI+"&code=abc&state=s", got)
		case <-time.After(time.Second):
			t.Fatal("no match reported")
		}
	})

	t.Run("root redirect uri", func(t *testing.T) {
		e := newEvents()
		_, redirectURI := openLoopbackAt(t, context.Background(), "", func(string) error { return nil }, e.listener())

		status, _ := get(t, redirectURI+"/?code=abc&state=s")
		require.Equal(t, http.StatusOK, status)
		select {
		case got := <-e.matched:
			require.Equal(t, redirectURI+"/?code=abc&state=s", got)
		case <-time.After(time.Second):
			t.Fatal("no match reported")
		}
	})

	t.Run("context cancellation closes", func(t *testing.T) {
		e := newEvents()
		ctx, cancel := context.WithCancel(context.Background())
		openLoopback(t, ctx, func(string) error { return nil }, e.listener())

		cancel()
		select {
		case <-e.closed:
		case <-time.After(time.Second):
			t.Fatal("no close reported")
		}
		require.Empty(t, e.matched)
	})

	t.Run("close detaches", func(t *testing.T) {
		e := newEvents()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		h, _ := openLoopback(t, ctx, func(string) error { return nil }, e.listener())

		require.NoError(t, h.Close())
		cancel()
		time.Sleep(50 * time.Millisecond)
		require.Empty(t, e.closed)
		require.Empty(t, e.matched)
	})

	t.Run("launcher failure is popup blocked", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		lb := capture.NewLoopback(
			capture.WithListener(ln),
			capture.WithLauncher(func(string) error { return io.ErrClosedPipe }),
			capture.WithLogger(zerolog.Nop()),
		)
		_, err = lb.Open(context.Background(), "https://auth.example.com/authorize", "http://"+ln.Addr().String()+"/callback", newEvents().listener())
		require.ErrorIs(t, err, capture.ErrPopupBlocked)
	})

	t.Run("https redirect is rejected", func(t *testing.T) {
		lb := capture.NewLoopback(capture.WithLauncher(func(string) error { return nil }))
		_, err := lb.Open(context.Background(), "https://auth.example.com/authorize", "https://localhost/callback", newEvents().listener())
		require.ErrorIs(t, err, capture.ErrPopupBlocked)
	})
}

func TestMatchesRedirect(t *testing.T) {
	require.True(t, capture.MatchesRedirect("http://localhost:3000/callback?code=1", "http://localhost:3000/callback"))
	require.False(t, capture.MatchesRedirect("http://localhost:3000/other", "http://localhost:3000/callback"))
	require.False(t, capture.MatchesRedirect("http://localhost:3000/callback", ""))
}
