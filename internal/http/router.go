package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/shopstack/catalog/internal/auth"
	"github.com/shopstack/catalog/internal/cache"
	"github.com/shopstack/catalog/internal/config"
	"github.com/shopstack/catalog/internal/http/handlers"
	"github.com/shopstack/catalog/internal/http/middlewares"
	"github.com/shopstack/catalog/internal/observability"
	"github.com/shopstack/catalog/internal/repo/postgres"
)

func NewRouter(
	log *slog.Logger,
	pool *pgxpool.Pool,
	cacheClient *cache.Client,
	prom *observability.Prom,
	metricsReg *prometheus.Registry,
	cfg config.Config,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("catalog"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// health + metrics
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/health", h.Health)

	if metricsReg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{})))
	}

	// wire up repositories and the token manager
	usersRepo := postgres.NewUsersRepo(pool, prom)
	productsRepo := postgres.NewProductsRepo(pool, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.SessionTTL())

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, jwtManager, cfg)
	productsHandler := handlers.NewProductsHandler(productsRepo, cacheClient, prom)
	accountHandler := handlers.NewAccountHandler()

	// credential endpoints get a per-IP rate limit
	authLimiter := middlewares.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow)
	limited := authLimiter.RateLimiterMiddleware(middlewares.KeyByIP)

	r.POST("/signup", limited, authHandler.SignUp)
	r.POST("/login", limited, authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	r.POST("/products", productsHandler.CreateProduct)
	r.GET("/products", productsHandler.ListProducts)
	r.GET("/products/:id", productsHandler.GetProductByID)
	r.PUT("/products/:id", productsHandler.UpdateProduct)
	r.DELETE("/products/:id", productsHandler.DeleteProduct)

	// protected areas behind the session gate
	gate := middlewares.NewSessionGate(jwtManager)

	dashboard := r.Group("/dashboard", gate.Require())
	dashboard.GET("", accountHandler.Dashboard)
	dashboard.GET("/*rest", accountHandler.Dashboard)

	profile := r.Group("/profile", gate.Require())
	profile.GET("", accountHandler.Profile)
	profile.GET("/*rest", accountHandler.Profile)

	orders := r.Group("/orders", gate.Require())
	orders.GET("", accountHandler.Orders)
	orders.GET("/*rest", accountHandler.Orders)

	log.Debug("router initialized", "env", cfg.Env, "cache", cacheClient != nil)

	return r
}
