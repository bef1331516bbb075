package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"taskeve/internal/auth"
	"taskeve/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "taskeve.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sessions, err := auth.NewSessions("test-secret", time.Hour)
	require.NoError(t, err)

	return New(store, sessions, nil, "")
}

// do runs a JSON request against the server, attaching the given session
// cookie when non-nil.
func do(t *testing.T, srv *Server, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if session != nil {
		req.AddCookie(session)
	}
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates an account and returns its session cookie.
func registerAndLogin(t *testing.T, srv *Server, username, password string) *http.Cookie {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/register", map[string]string{
		"username": username, "password": password, "confirm_password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/login", map[string]string{
		"username": username, "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}
