package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/leaderboard"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFetcher struct {
	mu      sync.Mutex
	queries []leaderboard.Query
	fail    map[leaderboard.Scope]bool
}

func (f *fakeFetcher) Fetch(_ context.Context, q leaderboard.Query) (*models.LeaderboardResult, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.fail[q.Scope] {
		return nil, errors.New("aggregation failed")
	}
	return &models.LeaderboardResult{
		SortBy:  string(q.SortBy),
		SortDir: string(q.SortDir),
		Limit:   q.Limit,
		Results: []models.LeaderboardRow{{Rank: 1, PlayerName: "Eagle-1", Kills: 42}},
	}, nil
}

type emptyDirectory struct{}

func (emptyDirectory) FindByDiscordIDs(context.Context, []string) ([]models.User, error) {
	return nil, nil
}

func (emptyDirectory) FindByNames(context.Context, []string) ([]models.User, error) {
	return nil, nil
}

func newTestRouter(f *fakeFetcher) *gin.Engine {
	logger := zap.NewNop().Sugar()
	board := leaderboard.NewOrchestrator(
		f,
		leaderboard.NewEnricher(emptyDirectory{}, logger),
		leaderboard.NewCache(16, 0),
		logger,
	)
	h := New(logger, nil, board, nil, nil, nil)

	r := gin.New()
	r.GET("/api/leaderboard", h.GetLeaderboard)
	r.GET("/api/leaderboard/batch", h.GetLeaderboardBatch)
	return r
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestGetLeaderboardDefaults(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestRouter(f)

	w := get(r, "/api/leaderboard")

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("ETag"))
	assert.Contains(t, w.Header().Get("Cache-Control"), "max-age=30")

	require.Len(t, f.queries, 1)
	q := f.queries[0]
	assert.Equal(t, leaderboard.ScopeMonth, q.Scope)
	assert.Equal(t, leaderboard.SortKills, q.SortBy)
	assert.Equal(t, leaderboard.SortDesc, q.SortDir)
	assert.Equal(t, 100, q.Limit)

	var body models.LeaderboardResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "Eagle-1", body.Results[0].PlayerName)
}

func TestGetLeaderboardUnknownScopeDefaultsToMonth(t *testing.T) {
	f := &fakeFetcher{}
	r := newTestRouter(f)

	w := get(r, "/api/leaderboard?scope=bogus")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, f.queries, 1)
	assert.Equal(t, leaderboard.ScopeMonth, f.queries[0].Scope)
}

func TestGetLeaderboardFetchError(t *testing.T) {
	f := &fakeFetcher{fail: map[leaderboard.Scope]bool{leaderboard.ScopeMonth: true}}
	r := newTestRouter(f)

	w := get(r, "/api/leaderboard")

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch leaderboard")
}

func TestGetLeaderboardETagRoundTrip(t *testing.T) {
	r := newTestRouter(&fakeFetcher{})

	first := get(r, "/api/leaderboard")
	etag := first.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	req.Header.Set("If-None-Match", etag)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestBatchRequiresScopes(t *testing.T) {
	r := newTestRouter(&fakeFetcher{})

	for _, url := range []string{"/api/leaderboard/batch", "/api/leaderboard/batch?scopes=,%20,"} {
		w := get(r, url)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
		assert.Contains(t, w.Body.String(), "No scopes provided", url)
	}
}

func TestBatchMixedScopes(t *testing.T) {
	f := &fakeFetcher{fail: map[leaderboard.Scope]bool{leaderboard.ScopeWeek: true}}
	r := newTestRouter(f)

	w := get(r, "/api/leaderboard/batch?scopes=month,week,bogus")

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Contains(t, body, "month")
	assert.NotContains(t, body, "week")

	var errs map[string]string
	require.NoError(t, json.Unmarshal(body["errors"], &errs))
	assert.Equal(t, "invalid scope", errs["bogus"])
	assert.Equal(t, "aggregation failed", errs["week"])
}
