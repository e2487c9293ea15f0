package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalog/internal/http/middlewares"
)

// AccountHandler serves the protected areas behind the session gate. The
// gate has already verified the cookie, so the identity is on the context.
type AccountHandler struct{}

func NewAccountHandler() *AccountHandler {
	return &AccountHandler{}
}

func (h *AccountHandler) area(name string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, _ := middlewares.UserIDFromContext(ctx)
		email, _ := middlewares.EmailFromContext(ctx)

		ctx.JSON(http.StatusOK, gin.H{
			"area": name,
			"user": gin.H{
				"id":    userID,
				"email": email,
			},
		})
	}
}

func (h *AccountHandler) Dashboard(ctx *gin.Context) { h.area("dashboard")(ctx) }
func (h *AccountHandler) Profile(ctx *gin.Context)   { h.area("profile")(ctx) }
func (h *AccountHandler) Orders(ctx *gin.Context)    { h.area("orders")(ctx) }
