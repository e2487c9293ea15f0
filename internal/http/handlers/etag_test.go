package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalog/internal/http/handlers"
)

func TestRespondJSONWithETag(t *testing.T) {
	r := gin.New()
	r.GET("/payload", func(c *gin.Context) {
		handlers.RespondJSONWithETag(c, http.StatusOK, gin.H{"answer": 42})
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/payload", nil))

	if first.Code != http.StatusOK {
		t.Fatalf("got status %d", first.Code)
	}

	etag := first.Header().Get("ETag")

	if etag == "" {
		t.Fatal("no ETag header")
	}

	// a conditional request with the same tag short-circuits to 304
	req := httptest.NewRequest(http.MethodGet, "/payload", nil)
	req.Header.Set("If-None-Match", etag)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, req)

	if second.Code != http.StatusNotModified {
		t.Fatalf("got status %d, want 304", second.Code)
	}

	// a stale tag still gets the payload
	req = httptest.NewRequest(http.MethodGet, "/payload", nil)
	req.Header.Set("If-None-Match", `"stale"`)

	third := httptest.NewRecorder()
	r.ServeHTTP(third, req)

	if third.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", third.Code)
	}
}
