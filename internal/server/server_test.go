package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/spq/internal/auth"
	"github.com/me/spq/internal/config"
	"github.com/me/spq/internal/quotes"
	"github.com/me/spq/pkg/model"
)

const testUsers = `[
	{"username": "alice", "password": "secret", "roles": ["quotes"]},
	{"username": "bob", "password": "hunter2", "roles": ["quotes", "filter"]},
	{"username": "carol", "password": "letmein", "roles": ["filter"]}
]`

var testQuotes = []model.Quote{
	{ID: "Cartman-0", Quote: "Screw you guys, I'm going home.", Character: "Cartman"},
	{ID: "Kenny-1", Quote: "Mmph mmph!", Character: "Kenny"},
}

// testEnv bundles a server with the pieces tests assert against.
type testEnv struct {
	server     *Server
	store      quotes.Store
	fetchCalls *int
	fetchErr   error
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	usersPath := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(usersPath, []byte(testUsers), 0o644); err != nil {
		t.Fatalf("write users file: %v", err)
	}

	st, err := quotes.NewSQLiteStore(":memory:", slog.Default())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	env := &testEnv{store: st}

	calls := 0
	env.fetchCalls = &calls
	fetch := func(ctx context.Context) ([]model.Quote, error) {
		calls++
		if env.fetchErr != nil {
			return nil, env.fetchErr
		}
		return testQuotes, nil
	}

	cfg := config.DefaultServerConfig()
	creds := auth.NewCredentialStore(usersPath, slog.Default())

	env.server = New(cfg, st, fetch, creds, slog.Default(), opts...)
	return env
}

// get performs a GET request, optionally with an auth cookie.
func (e *testEnv) get(t *testing.T, target, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

// postForm performs a form POST, optionally with an auth cookie.
func (e *testEnv) postForm(t *testing.T, target, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}

	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func TestHealth_NoAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/health", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"healthy"`) {
		t.Errorf("unexpected health body: %s", w.Body.String())
	}
}

// authCookie finds the auth cookie in a response, or nil.
func authCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}
