package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balkashynov/studytrack/internal/db"
	"github.com/balkashynov/studytrack/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, *db.Store) {
	t.Helper()
	store, err := db.Open(db.Options{Path: filepath.Join(t.TempDir(), "api.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return New(store, quietLogger()), store
}

// do sends a request through the full handler chain.
func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newRecorder(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

// --- Failing store ---

var errDiskGone = errors.New("disk I/O error")

// failingStore fails every call it overrides; the embedded interface is nil.
type failingStore struct {
	Store
}

func (failingStore) Ping(context.Context) error { return errDiskGone }

func (failingStore) ListProjects(context.Context) ([]models.Project, error) {
	return nil, errDiskGone
}

func (failingStore) CreateProject(context.Context, string) (*models.Project, error) {
	return nil, errors.Join(db.ErrConstraint, errors.New("UNIQUE constraint failed: projects.name"))
}

func (failingStore) ActiveSession(context.Context) (*models.StudySession, error) {
	return nil, db.ErrCorruptTimestamp
}

func (failingStore) ClockIn(context.Context, int64, *string) (*models.StudySession, error) {
	return nil, errDiskGone
}

// Verify interface compliance.
var (
	_ Store = (*db.Store)(nil)
	_ Store = failingStore{}
)
