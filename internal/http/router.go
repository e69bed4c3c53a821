package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/notifications"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/redisclient"
	"github.com/geocoder89/userhub/internal/repo/memory"
	"github.com/geocoder89/userhub/internal/service"
)

// NewRouter wires the whole object graph by hand: store → repo → services →
// handlers. The graph is small and static, so no DI container.
func NewRouter(log *slog.Logger, store *memory.Store, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// metrics get a per-router registry so tests can build routers freely
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(otelgin.Middleware("userhub"))
	r.Use(prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	r.Use(middlewares.RequireJSON())

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	r.Use(middlewares.MaxBodyBytes(maxBody))

	// optional redis: shared login rate limit + readiness probe
	var ping func() error

	var counterStore middlewares.CounterStore = middlewares.NewMemoryCounterStore()

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		counterStore = middlewares.NewRedisCounterStore(rc.Raw(), "userhub:ratelimit:")

		ping = func() error {
			ctx, cancel := config.WithTimeout(1 * time.Second)
			defer cancel()

			return rc.Ping(ctx)
		}
	}

	loginLimit := cfg.LoginRateLimit
	if loginLimit <= 0 {
		loginLimit = 20
	}

	loginWindow := cfg.LoginRateWindow
	if loginWindow <= 0 {
		loginWindow = time.Minute
	}

	loginLimiter := middlewares.NewRateLimiter(counterStore, loginLimit, loginWindow, log)

	// wire up the repository and services
	usersRepo := memory.NewUsersRepo(store, prom)
	prom.StoreUsers.Set(float64(store.Len()))

	userService := service.NewUserService(usersRepo)
	authService := service.NewAuthService()

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{},
	)

	// health + metrics
	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Routes
	usersHandler := handlers.NewUsersHandler(userService, notifier, log)
	authHandler := handlers.NewAuthHandler(userService, authService)

	r.POST("/auth/login", loginLimiter.Middleware(middlewares.KeyByIP), authHandler.Login)

	r.GET("/users", usersHandler.ListUsers)
	r.GET("/users/:id", usersHandler.GetUserByID)
	r.POST("/users", usersHandler.CreateUser)
	r.PATCH("/users/:id", usersHandler.PatchUser)

	return r
}
