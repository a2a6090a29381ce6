package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(headers map[string]string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/data", func(c *gin.Context) {
		JSONWithETag(c, http.StatusOK, LeaderboardCacheControl, gin.H{"results": []int{1, 2, 3}})
	})

	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJSONWithETagSetsHeaders(t *testing.T) {
	w := performRequest(nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("expected ETag header")
	}
	if w.Header().Get("Cache-Control") != LeaderboardCacheControl {
		t.Errorf("unexpected Cache-Control: %s", w.Header().Get("Cache-Control"))
	}
	if w.Body.Len() == 0 {
		t.Error("expected body")
	}
}

func TestJSONWithETagReturns304OnMatch(t *testing.T) {
	first := performRequest(nil)
	etag := first.Header().Get("ETag")

	second := performRequest(map[string]string{"If-None-Match": etag})

	if second.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", second.Code)
	}
	if second.Body.Len() != 0 {
		t.Error("304 response must have no body")
	}
}

func TestJSONWithETagStableAcrossIdenticalPayloads(t *testing.T) {
	a := performRequest(nil)
	b := performRequest(nil)

	if a.Header().Get("ETag") != b.Header().Get("ETag") {
		t.Error("identical payloads must produce identical ETags")
	}
}
