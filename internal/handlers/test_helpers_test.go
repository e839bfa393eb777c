package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"spyfall"
	"spyfall/internal/catalog"
	"spyfall/internal/config"
	"spyfall/internal/game"
	"spyfall/internal/store"
)

func testConfig() *config.ServerConfig {
	cfg := config.DefaultConfig()
	cfg.Server.Port = "8080"
	cfg.Server.Host = "localhost"
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestHandler creates a handler over the embedded catalog with a seeded
// random source
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	c, err := catalog.New(spyfall.LocationsYAML)
	require.NoError(t, err)

	cfg := testConfig()
	s := store.NewMemoryStore(c, cfg.Rules(),
		store.WithLogger(quietLogger()),
		store.WithEngineOptions(game.WithRandSource(rand.NewSource(1))),
	)
	t.Cleanup(s.Close)
	return New(s, c, quietLogger())
}

// newTestRouter creates a router without logging or rate limiting
func newTestRouter(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	h := newTestHandler(t)
	r := SetupRouter(h, testConfig(), &RouterOptions{
		DisableRateLimiting:  true,
		DisableRequestLogger: true,
	})
	return h, r
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// createTable creates a table and returns its code
func createTable(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/api/tables", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[tableView](t, rec).Code
}

// seatPlayers adds players by name and returns their ids
func seatPlayers(t *testing.T, router http.Handler, code string, names ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(names))
	for _, name := range names {
		rec := do(t, router, http.MethodPost, "/api/tables/"+code+"/players", addPlayerRequest{Name: name})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decode[playerView](t, rec).ID)
	}
	return ids
}

// startedTable returns a table with three players in a started game
func startedTable(t *testing.T, router http.Handler) (string, []string) {
	t.Helper()
	code := createTable(t, router)
	ids := seatPlayers(t, router, code, "Ann", "Bo", "Cy")
	require.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/tables/"+code+"/categories/original-locations/toggle", nil).Code)
	rec := do(t, router, http.MethodPost, "/api/tables/"+code+"/start", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return code, ids
}

func engineFor(t *testing.T, h *Handler, code string) *game.Engine {
	t.Helper()
	table, err := h.Store().GetTable(code)
	require.NoError(t, err)
	return table.Engine
}
