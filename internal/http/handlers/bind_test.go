package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalog/internal/http/handlers"
)

type bindTarget struct {
	Email string `json:"email" binding:"required,email"`
	Count int    `json:"count"`
}

func setupBindRouter() *gin.Engine {
	r := gin.New()

	r.POST("/bind", func(c *gin.Context) {
		var out bindTarget

		if !handlers.BindJSON(c, &out) {
			return
		}

		c.JSON(http.StatusOK, out)
	})

	return r
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "valid",
			body:           `{"email":"a@example.com","count":3}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing_required_field",
			body:           `{"count":3}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid_email",
			body:           `{"email":"not-an-email"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "invalid_json_syntax",
			body:           `{"email":`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "type_mismatch",
			body:           `{"email":"a@example.com","count":"three"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	r := setupBindRouter()

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/bind", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
