package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/mccutchen/go-httpbin/httpbin"
	"github.com/stretchr/testify/require"

	"github.com/playbot-dev/playbot/browser"
	"github.com/playbot-dev/playbot/engine"
)

// testBrowser runs keywords against a started browser and serves a local
// httpbin site for them to visit.
type testBrowser struct {
	t   testing.TB
	kw  *browser.Keywords
	lib *browser.Library
	mux *http.ServeMux
	srv *httptest.Server
}

type testBrowserOption func(*testBrowser)

// withHandler adds a handler in front of the httpbin routes.
func withHandler(pattern string, h http.HandlerFunc) testBrowserOption {
	return func(tb *testBrowser) { tb.mux.HandleFunc(pattern, h) }
}

// backends returns the browser backends to test.
func backends(t testing.TB) []string {
	t.Helper()

	if _, ok := os.LookupEnv("PLAYBOT_E2E"); !ok {
		t.Skip("set PLAYBOT_E2E to run the end-to-end tests")
	}
	v := os.Getenv("PLAYBOT_E2E_BROWSERS")
	if v == "" {
		return []string{"chromium"}
	}
	return strings.Split(v, ",")
}

// newTestBrowser starts a headless browser of the given backend and closes
// it when the test ends.
func newTestBrowser(t testing.TB, backend string, opts ...testBrowserOption) *testBrowser {
	t.Helper()

	tb := &testBrowser{t: t, mux: http.NewServeMux()}
	tb.mux.Handle("/", httpbin.New().Handler())
	for _, opt := range opts {
		opt(tb)
	}
	tb.srv = httptest.NewServer(tb.mux)
	t.Cleanup(tb.srv.Close)

	tb.lib = browser.NewLibrary(context.Background(), backend, engine.NewLauncher(engine.Config{}, nil), nil)
	tb.kw = browser.NewKeywords(tb.lib)
	tb.run("Start Browser", nil, map[string]any{"headless": true})
	t.Cleanup(func() {
		if _, err := tb.lib.Browser(); err == nil {
			_ = tb.lib.CloseBrowser()
		}
	})

	return tb
}

// url returns the URL of path on the test site.
func (tb *testBrowser) url(path string) string { return tb.srv.URL + path }

// run runs a keyword and fails the test on error.
func (tb *testBrowser) run(name string, args []any, kwargs map[string]any) any {
	tb.t.Helper()

	v, err := tb.kw.Run(name, args, kwargs)
	require.NoErrorf(tb.t, err, "running %s", name)
	return v
}

// newPage opens a page in a new context and returns the context and page
// handles.
func (tb *testBrowser) newPage(kwargs map[string]any) (ctxID, pageID any) {
	tb.t.Helper()

	ctxID = tb.run("New Context", nil, kwargs)
	pageID = tb.run("New Page", []any{ctxID}, nil)
	return ctxID, pageID
}
