package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shopstack/catalog/internal/auth"
	"github.com/shopstack/catalog/internal/config"
	"github.com/shopstack/catalog/internal/domain/user"
	"github.com/shopstack/catalog/internal/repo/postgres"
	"github.com/shopstack/catalog/internal/security"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

type SessionIssuer interface {
	GenerateSessionToken(userID, email string) (string, time.Time, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        SessionIssuer
	cfg        config.Config
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager SessionIssuer, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		cfg:        cfg,
	}
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		slog.Default().Error("signup: hash password", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Name, req.Email, hash)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailAlreadyUsed) {
			RespondBadRequest(ctx, "user_exists", "User already exists", nil)
			return
		}

		slog.Default().Error("signup: create user", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "User registered successfully",
		"user":    u.Summary(),
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			// identical message for unknown email and wrong password
			RespondBadRequest(ctx, "invalid_credentials", "Invalid email or password", nil)
			return
		}

		slog.Default().Error("login: lookup user", "err", err)
		RespondInternal(ctx, "Could not log in")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondBadRequest(ctx, "invalid_credentials", "Invalid email or password", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateSessionToken(foundUser.ID, foundUser.Email)

	if err != nil {
		slog.Default().Error("login: issue session token", "err", err)

		if errors.Is(err, auth.ErrNoSecret) {
			RespondServerConfig(ctx, "Server is not configured for sessions")
			return
		}

		RespondInternal(ctx, "Could not log in")
		return
	}

	h.setSessionCookie(ctx, token, expiresAt)

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Login successful",
		"user":    foundUser.Summary(),
	})
}

// Logout clears the cookie on the client. Tokens are stateless, so an
// already-issued token stays valid until its natural expiry.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, raw string, expiresAt time.Time) {
	secure := h.cfg.Env == "prod"

	maxAge := int(time.Until(expiresAt).Seconds())

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		auth.SessionCookieName,
		raw,
		maxAge,
		"/",
		"",
		secure,
		true, // HttpOnly
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		auth.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
