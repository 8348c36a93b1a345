package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/birthreminder/accounts/docs"
	"github.com/birthreminder/accounts/internal/api/handler"
	"github.com/birthreminder/accounts/internal/api/middleware"
	"github.com/birthreminder/accounts/internal/core/service"
	mongostore "github.com/birthreminder/accounts/internal/infrastructure/db/mongo"
	"github.com/birthreminder/accounts/internal/security"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, bcryptCost int, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("accounts"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	tokenRepo := mongostore.NewTokenRepository(db)
	hasher := security.NewHasher(bcryptCost)
	accounts := service.NewAccountService(userRepo, tokenRepo, hasher, log)
	userHandler := handler.NewUserHandler(accounts)

	// --- User routes ---
	// Each route picks its authentication strategy explicitly: token for
	// registration (optional, anonymous counts as user-tier), credentials
	// for login, none for the read-only queries.
	e.POST("/users", userHandler.Create, middleware.TokenAuth(accounts))
	e.POST("/users/login", userHandler.Login, middleware.CredentialAuth(accounts))
	e.GET("/users/search", userHandler.Search)
	e.GET("/users/:id", userHandler.Get)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
