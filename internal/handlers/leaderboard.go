package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/httputil"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/leaderboard"
)

// queryFromRequest reads the shared leaderboard parameters. Every
// invalid value falls back to its default rather than erroring.
func queryFromRequest(c *gin.Context) leaderboard.Query {
	return leaderboard.Query{
		SortBy:  leaderboard.SortField(c.DefaultQuery("sortBy", string(leaderboard.SortKills))),
		SortDir: leaderboard.SortDir(c.DefaultQuery("sortDir", string(leaderboard.SortDesc))),
		Limit:   intQuery(c, "limit"),
		Month:   intQuery(c, "month"),
		Year:    intQuery(c, "year"),
	}
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}

// GetLeaderboard serves a single scope. Unknown scope names default to
// the monthly board.
func (h *Handler) GetLeaderboard(c *gin.Context) {
	q := queryFromRequest(c)

	scope, ok := leaderboard.ParseScope(c.DefaultQuery("scope", string(leaderboard.ScopeMonth)))
	if !ok {
		scope = leaderboard.ScopeMonth
	}
	q.Scope = scope

	res, err := h.board.FetchScope(c.Request.Context(), q)
	if err != nil {
		h.logger.Errorw("leaderboard fetch failed", "scope", scope, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leaderboard"})
		return
	}

	httputil.JSONWithETag(c, http.StatusOK, httputil.LeaderboardCacheControl, res)
}

// GetLeaderboardBatch serves several scopes in one response. Per-scope
// failures are reported alongside the successful scopes; the response
// status stays 200 as long as the request itself is well formed.
func (h *Handler) GetLeaderboardBatch(c *gin.Context) {
	var scopes []string
	for _, part := range strings.Split(c.Query("scopes"), ",") {
		if s := strings.TrimSpace(part); s != "" {
			scopes = append(scopes, s)
		}
	}
	if len(scopes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No scopes provided"})
		return
	}

	out, errs := h.board.FetchScopes(c.Request.Context(), scopes, queryFromRequest(c))

	payload := gin.H{}
	for scope, res := range out {
		payload[scope] = res
	}
	if len(errs) > 0 {
		payload["errors"] = errs
	}

	httputil.JSONWithETag(c, http.StatusOK, httputil.LeaderboardCacheControl, payload)
}
