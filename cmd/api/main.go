// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/stockcart-be/internal/adapters/db"
	redis_a "github.com/ammerola/stockcart-be/internal/adapters/redis_adapter"
	"github.com/ammerola/stockcart-be/internal/core/services"
	"github.com/ammerola/stockcart-be/internal/handlers"
	"github.com/ammerola/stockcart-be/internal/handlers/middleware"
	"github.com/ammerola/stockcart-be/internal/pkg/config"
	"github.com/ammerola/stockcart-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting stockcart commerce backend",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	authHandler         *handlers.AuthHandler
	cartHandler         *handlers.CartHandler
	productHandler      *handlers.ProductHandler
	inventoryHandler    *handlers.InventoryHandler
	collaboratorHandler *handlers.CollaboratorHandler
	logHandler          *handlers.LogHandler
	transactionHandler  *handlers.TransactionHandler
	healthHandler       *handlers.HealthHandler

	resolver *services.IdentityResolverService
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Core services over the record gateway.
	gateway := db.NewRecordGateway(database.Pool(), slogger)
	provider := services.NewIdentityProvider(gateway,
		[]byte(cfg.Security.JWTSecret), cfg.Security.JWTExpiration, slogger)
	deps.resolver = services.NewIdentityResolver(provider, slogger)
	guard := services.NewOwnershipGuard(gateway, services.GuardPolicy{
		CollaboratorsShareInventory: cfg.Security.CollaboratorAccess,
	}, slogger)
	cartService := services.NewCartItemService(gateway, slogger)
	loginLimiter := redis_a.NewLoginLimiter(redisClient,
		cfg.Security.LoginMaxFailures, cfg.Security.LoginLockout, slogger)

	deps.authHandler = handlers.NewAuthHandler(provider, loginLimiter, gateway, slogger)
	deps.cartHandler = handlers.NewCartHandler(cartService, guard, gateway, slogger)
	deps.productHandler = handlers.NewProductHandler(gateway, deps.asynqClient, slogger)
	deps.inventoryHandler = handlers.NewInventoryHandler(gateway, guard, deps.asynqClient, slogger)
	deps.collaboratorHandler = handlers.NewCollaboratorHandler(gateway, slogger)
	deps.logHandler = handlers.NewLogHandler(gateway, slogger)
	deps.transactionHandler = handlers.NewTransactionHandler(gateway, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.Authenticate(deps.resolver)(handler)

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if cfg.App.Environment != "test" {
		handler = middleware.Recovery(slogger)(handler)
		handler = middleware.Logger(slogger)(handler)
		handler = middleware.RequestID(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
	}

	// Auth
	mux.HandleFunc("POST /auth/register", deps.authHandler.Register)
	mux.HandleFunc("POST /auth/login", deps.authHandler.Login)
	mux.HandleFunc("GET /auth/me", deps.authHandler.Me)
	mux.HandleFunc("GET /auth/user/{id}", deps.authHandler.GetUser)
	mux.HandleFunc("PUT /auth/user/{id}", deps.authHandler.UpdateUser)

	// Carts and cart items
	mux.HandleFunc("GET /api/cart", deps.cartHandler.ListCarts)
	mux.HandleFunc("POST /api/cart", deps.cartHandler.CreateCart)
	mux.HandleFunc("DELETE /api/cart/{id}", deps.cartHandler.DeleteCart)
	mux.HandleFunc("GET /api/cart/{id}/items", deps.cartHandler.ListItems)
	mux.HandleFunc("POST /api/cart/{id}/items", deps.cartHandler.AddItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", deps.cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", deps.cartHandler.DeleteItem)

	// Product catalog
	mux.HandleFunc("POST /api/products/", deps.productHandler.CreateProduct)
	mux.HandleFunc("GET /api/products/inventory/{inventoryId}", deps.productHandler.ListByInventory)
	mux.HandleFunc("GET /api/products/{id}", deps.productHandler.GetProduct)
	mux.HandleFunc("PUT /api/products/{id}", deps.productHandler.UpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", deps.productHandler.DeleteProduct)

	// Inventories
	mux.HandleFunc("GET /api/inventory/", deps.inventoryHandler.ListInventories)
	mux.HandleFunc("POST /api/inventory/", deps.inventoryHandler.CreateInventory)
	mux.HandleFunc("GET /api/inventory/{id}", deps.inventoryHandler.GetInventory)
	mux.HandleFunc("DELETE /api/inventory/{id}", deps.inventoryHandler.DeleteInventory)

	// Collaborator links
	mux.HandleFunc("POST /api/collaborator/", deps.collaboratorHandler.AddCollaborator)
	mux.HandleFunc("DELETE /api/collaborator/", deps.collaboratorHandler.RemoveCollaborator)
	mux.HandleFunc("GET /api/collaborator/{inventoryId}", deps.collaboratorHandler.ListCollaborators)

	// Audit logs
	mux.HandleFunc("GET /api/logs/{inventoryId}", deps.logHandler.ListLogs)
	mux.HandleFunc("POST /api/logs/{inventoryId}", deps.logHandler.AppendLog)
	mux.HandleFunc("DELETE /api/logs/{inventoryId}", deps.logHandler.ClearLogs)

	// Transactions
	mux.HandleFunc("GET /api/transactions/", deps.transactionHandler.ListTransactions)
	mux.HandleFunc("POST /api/transactions/", deps.transactionHandler.CreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", deps.transactionHandler.GetTransaction)
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
