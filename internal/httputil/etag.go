package httputil

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cache-Control values used by the public API surfaces.
const (
	LeaderboardCacheControl = "public, max-age=30, s-maxage=60, stale-while-revalidate=300"
	ConfigCacheControl      = "public, max-age=300, stale-while-revalidate=1800"
	ProfileCacheControl     = "private, max-age=60"
)

// JSONWithETag writes body as JSON with a strong ETag. When the
// client's If-None-Match matches, a 304 with no body is sent instead.
func JSONWithETag(c *gin.Context, status int, cacheControl string, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode response"})
		return
	}

	sum := sha1.Sum(data)
	etag := `"` + hex.EncodeToString(sum[:]) + `"`

	c.Header("Cache-Control", cacheControl)
	c.Header("ETag", etag)

	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(status, "application/json; charset=utf-8", data)
}
