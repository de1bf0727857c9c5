package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/esop/appliance-portal/internal/api/handler"
	"github.com/esop/appliance-portal/internal/api/middleware"
	"github.com/esop/appliance-portal/internal/core/domain"
	"github.com/esop/appliance-portal/internal/core/service"
	"github.com/esop/appliance-portal/internal/infrastructure/config"
	mongodb "github.com/esop/appliance-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/esop/appliance-portal/internal/infrastructure/db/redis"
	"github.com/esop/appliance-portal/internal/infrastructure/upstream"
	"github.com/esop/appliance-portal/internal/pkg/token"
)

// Dependencies carries the constructed services the router exposes. Built by
// Wire; kept as a struct so main can reach the pieces it also needs (the
// appliance service feeds the background poller).
type Dependencies struct {
	UserRepo         *mongodb.UserRepository
	ApplianceService *service.ApplianceService
}

// Wire constructs the full dependency graph from infrastructure handles.
func Wire(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *Dependencies {
	return &Dependencies{
		UserRepo: mongodb.NewUserRepository(db),
		ApplianceService: service.NewApplianceService(
			upstream.NewClient(upstream.Config{
				URL:     cfg.Upstream.URL,
				APIKey:  cfg.Upstream.APIKey,
				Timeout: cfg.Upstream.Timeout,
			}),
			redisdb.NewResponseCache(rdb, cfg.Upstream.CacheTTL),
			log.With().Str("component", "appliance_service").Logger(),
		),
	}
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger, deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("esop_portal"))

	// --- Services and handlers ---
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL())
	authService := service.NewAuthService(deps.UserRepo, issuer, log.With().Str("component", "auth").Logger())
	userService := service.NewUserService(deps.UserRepo, log.With().Str("component", "users").Logger())

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	applianceHandler := handler.NewApplianceHandler(deps.ApplianceService)

	authn := middleware.Authenticate(issuer, deps.UserRepo)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/auth/token", authHandler.Token)
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(db, rdb).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated routes (any active user) ---
	e.GET("/users/me", userHandler.Me, authn)
	e.POST("/users/me/reset-password", userHandler.ResetOwnPassword, authn)
	e.GET("/appliances", applianceHandler.List, authn)
	e.GET("/appliances/:nePk/leases", applianceHandler.Leases, authn)
	e.GET("/clients", applianceHandler.Clients, authn)

	// --- Admin routes ---
	e.POST("/auth/register", authHandler.Register, authn, adminOnly)
	e.GET("/users", userHandler.List, authn, adminOnly)
	e.GET("/users/:id", userHandler.Get, authn, adminOnly)
	e.PATCH("/users/:id", userHandler.Update, authn, adminOnly)
	e.DELETE("/users/:id", userHandler.Delete, authn, adminOnly)
	e.POST("/users/:id/reset-password", userHandler.ResetPassword, authn, adminOnly)

	return e
}
