package container

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/apuntes-marketplace/app/db"
	appMiddleware "github.com/FACorreiaa/apuntes-marketplace/app/middleware"
	"github.com/FACorreiaa/apuntes-marketplace/config"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/auth"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/listing"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/storage"
	"github.com/FACorreiaa/apuntes-marketplace/internal/api/user"
	"github.com/FACorreiaa/apuntes-marketplace/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pool           *pgxpool.Pool
	AuthService    *auth.AuthServiceImpl
	AuthHandler    *auth.AuthHandler
	UserHandler    *user.UserHandler
	ListingHandler *listing.ListingHandler
	StorageHandler *storage.StorageHandler
	Authenticate   func(http.Handler) http.Handler
}

// NewContainer migrates and connects to the database, then wires repositories,
// services and handlers. Every query goes through the instrumented DB wrapper.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	// Migrations run before the pool is opened.
	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(ctx, dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	c := Wire(cfg, database.Instrument(pool), logger)
	c.Pool = pool
	return c, nil
}

// Wire builds the object graph on top of an existing database handle.
func Wire(cfg *config.Config, db database.DB, logger *slog.Logger) *Container {
	tokens := auth.NewTokenManager(cfg.JWT)
	cookie := auth.NewSessionCookie(cfg.Cookie, tokens.TTL())
	verifier := auth.NewGoogleVerifier(cfg.OAuth.Google, &http.Client{Timeout: 10 * time.Second})

	authRepo := auth.NewPostgresAuthRepo(db, logger)
	authService := auth.NewAuthService(authRepo, tokens, verifier, cfg.Auth.Federated.RequireVerification, logger)
	authHandler := auth.NewAuthHandler(authService, cookie, logger)

	listingRepo := listing.NewPostgresListingRepo(db, logger)
	listingService := listing.NewListingService(listingRepo, logger)
	listingHandler := listing.NewListingHandler(listingService, listing.QueryLimits{
		DefaultLimit: cfg.Listings.DefaultLimit,
		MaxLimit:     cfg.Listings.MaxLimit,
	}, logger)

	userRepo := user.NewPostgresUserRepo(db, logger)
	userService := user.NewUserService(userRepo, authService, authService, listingService, logger)
	userHandler := user.NewUserHandler(userService, cookie, logger)

	var storageHandler *storage.StorageHandler
	if cfg.Storage.S3.Bucket != "" {
		storageService := storage.NewS3StorageService(cfg.Storage.S3, logger)
		storageHandler = storage.NewStorageHandler(storageService, logger)
	}

	return &Container{
		Config:         cfg,
		Logger:         logger,
		AuthService:    authService,
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		ListingHandler: listingHandler,
		StorageHandler: storageHandler,
		Authenticate:   auth.Authenticate(logger, authService, cookie),
	}
}

// Router returns the HTTP handler for the public API and the client bundle.
func (c *Container) Router() http.Handler {
	return router.SetupRouter(&router.Config{
		AuthHandler:            c.AuthHandler,
		UserHandler:            c.UserHandler,
		ListingHandler:         c.ListingHandler,
		StorageHandler:         c.StorageHandler,
		AuthenticateMiddleware: c.Authenticate,
		AuthRateLimit:          appMiddleware.AuthRateLimit(c.Config.Auth.RateLimit.Requests, c.Config.Auth.RateLimit.Window),
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
		ClientDir:              c.Config.Client.Dir,
		Timeout:                c.Config.Server.Timeout,
		Logger:                 c.Logger,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
