package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopstack/catalog/internal/auth"
	"github.com/shopstack/catalog/internal/config"
	"github.com/shopstack/catalog/internal/domain/user"
	"github.com/shopstack/catalog/internal/http/handlers"
	"github.com/shopstack/catalog/internal/repo/postgres"
	"github.com/shopstack/catalog/internal/security"
)

type fakeUsersRepo struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	createFn     func(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return user.User{}, postgres.ErrUserNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, name, email, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, passwordHash)
	}

	return user.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

func setupAuthRouter(repo *fakeUsersRepo, jwtManager handlers.SessionIssuer) *gin.Engine {
	cfg := config.Config{Env: "test"}

	h := handlers.NewAuthHandler(repo, repo, jwtManager, cfg)

	r := gin.New()
	r.POST("/signup", h.SignUp)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)

	return r
}

func testManager() *auth.Manager {
	return auth.NewManager("test-secret", 7*24*time.Hour)
}

func TestSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetup      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`,
			repoSetup:      func(f *fakeUsersRepo) {},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_fields",
			body:           `{"email":"ada@example.com"}`,
			repoSetup:      func(f *fakeUsersRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_email",
			body: `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash string) (user.User, error) {
					return user.User{}, postgres.ErrEmailAlreadyUsed
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "store_error",
			body: `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`,
			repoSetup: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}
			tt.repoSetup(repo)

			r := setupAuthRouter(repo, testManager())
			w := doJSON(r, http.MethodPost, "/signup", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestSignUpNeverReturnsPassword(t *testing.T) {
	repo := &fakeUsersRepo{}

	r := setupAuthRouter(repo, testManager())
	w := doJSON(r, http.MethodPost, "/signup", `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if strings.Contains(w.Body.String(), "hunter22") || strings.Contains(w.Body.String(), "password") {
		t.Errorf("response leaks credential material: %s", w.Body.String())
	}

	var body struct {
		User user.Summary `json:"user"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.User.Name != "Ada" || body.User.Email != "ada@example.com" {
		t.Errorf("unexpected user summary: %+v", body.User)
	}
}

func TestSignUpHashesPassword(t *testing.T) {
	var storedHash string

	repo := &fakeUsersRepo{
		createFn: func(ctx context.Context, name, email, passwordHash string) (user.User, error) {
			storedHash = passwordHash
			return user.User{Name: name, Email: email, PasswordHash: passwordHash}, nil
		},
	}

	r := setupAuthRouter(repo, testManager())
	w := doJSON(r, http.MethodPost, "/signup", `{"name":"Ada","email":"ada@example.com","password":"hunter22"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if storedHash == "hunter22" || storedHash == "" {
		t.Fatalf("password stored without hashing: %q", storedHash)
	}

	if err := security.CheckPassword(storedHash, "hunter22"); err != nil {
		t.Errorf("stored hash does not validate the original password: %v", err)
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("correct-horse")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	knownUser := user.User{
		ID:           uuid.NewString(),
		Name:         "Ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
	}

	lookup := func(ctx context.Context, email string) (user.User, error) {
		if email == knownUser.Email {
			return knownUser, nil
		}
		return user.User{}, postgres.ErrUserNotFound
	}

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"email":"ada@example.com","password":"correct-horse"}`,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "unknown_email",
			body:           `{"email":"nobody@example.com","password":"correct-horse"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "wrong_password",
			body:           `{"email":"ada@example.com","password":"wrong"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_fields",
			body:           `{"email":"ada@example.com"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{getByEmailFn: lookup}

			r := setupAuthRouter(repo, testManager())
			w := doJSON(r, http.MethodPost, "/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

// Unknown email and wrong password must be indistinguishable in the
// response so neither field is confirmed to an attacker.
func TestLoginFailureMessagesIdentical(t *testing.T) {
	hash, err := security.HashPassword("correct-horse")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	repo := &fakeUsersRepo{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			if email == "ada@example.com" {
				return user.User{Email: email, PasswordHash: hash}, nil
			}
			return user.User{}, postgres.ErrUserNotFound
		},
	}

	r := setupAuthRouter(repo, testManager())

	unknownEmail := doJSON(r, http.MethodPost, "/login", `{"email":"nobody@example.com","password":"correct-horse"}`)
	wrongPassword := doJSON(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"wrong"}`)

	msgA := errorMessage(t, unknownEmail)
	msgB := errorMessage(t, wrongPassword)

	if msgA != msgB {
		t.Errorf("messages differ: %q vs %q", msgA, msgB)
	}

	if msgA != "Invalid email or password" {
		t.Errorf("unexpected message: %q", msgA)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	hash, err := security.HashPassword("correct-horse")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	repo := &fakeUsersRepo{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			return user.User{ID: "user-1", Name: "Ada", Email: email, PasswordHash: hash}, nil
		},
	}

	manager := testManager()
	r := setupAuthRouter(repo, manager)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"ada@example.com","password":"correct-horse"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var tokenCookie *http.Cookie

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			tokenCookie = c
		}
	}

	if tokenCookie == nil {
		t.Fatal("token cookie not set")
	}

	if !tokenCookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}

	if tokenCookie.Path != "/" {
		t.Errorf("cookie path: got %q, want /", tokenCookie.Path)
	}

	if tokenCookie.MaxAge <= 6*24*60*60 {
		t.Errorf("cookie max-age too short: %d", tokenCookie.MaxAge)
	}

	claims, err := manager.VerifySessionToken(tokenCookie.Value)

	if err != nil {
		t.Fatalf("cookie does not carry a valid session token: %v", err)
	}

	if claims.UserID != "user-1" || claims.Email != "ada@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLoginWithoutSecretIs500(t *testing.T) {
	hash, err := security.HashPassword("correct-horse")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	repo := &fakeUsersRepo{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			return user.User{Email: email, PasswordHash: hash}, nil
		},
	}

	r := setupAuthRouter(repo, auth.NewManager("", time.Hour))
	w := doJSON(r, http.MethodPost, "/login", `{"email":"ada@example.com","password":"correct-horse"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500, body=%s", w.Code, w.Body.String())
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r := setupAuthRouter(&fakeUsersRepo{}, testManager())
	w := doJSON(r, http.MethodPost, "/logout", "")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var tokenCookie *http.Cookie

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			tokenCookie = c
		}
	}

	if tokenCookie == nil {
		t.Fatal("token cookie not cleared")
	}

	if tokenCookie.Value != "" || tokenCookie.MaxAge >= 0 {
		t.Errorf("cookie not expired: value=%q maxAge=%d", tokenCookie.Value, tokenCookie.MaxAge)
	}
}
