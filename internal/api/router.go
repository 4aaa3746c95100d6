package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/finbook/ledger-system/internal/api/handler"
	"github.com/finbook/ledger-system/internal/core/service"
	redisdb "github.com/finbook/ledger-system/internal/infrastructure/db/redis"
	"github.com/finbook/ledger-system/internal/infrastructure/db/sqlite"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, in which case the balance cache is disabled and balances are
// always read from the store.
func NewRouter(db *sql.DB, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ledger"))

	// --- Dependencies ---
	var cache *redisdb.BalanceCache
	var invalidator service.BalanceInvalidator
	var balanceCache service.BalanceCache
	if rdb != nil {
		cache = redisdb.NewBalanceCache(rdb)
		invalidator = cache
		balanceCache = cache
	}

	userRepo := sqlite.NewUserRepository(db)
	transactionRepo := sqlite.NewTransactionRepository(db)
	ledgerService := service.NewLedgerService(userRepo, transactionRepo, invalidator, log)
	analyticsService := service.NewAnalyticsService(transactionRepo, balanceCache, log)

	userHandler := handler.NewUserHandler(ledgerService)
	transactionHandler := handler.NewTransactionHandler(ledgerService, analyticsService)

	// --- Ledger routes ---
	v1 := e.Group("/v1")
	v1.POST("/users", userHandler.Resolve)
	v1.DELETE("/users/:id", userHandler.Delete)
	v1.POST("/users/:id/incomes", transactionHandler.AddIncome)
	v1.POST("/users/:id/expenses", transactionHandler.AddExpense)
	v1.DELETE("/users/:id/incomes/:txid", transactionHandler.RemoveIncome)
	v1.DELETE("/users/:id/expenses/:txid", transactionHandler.RemoveExpense)
	v1.GET("/users/:id/transactions", transactionHandler.List)
	v1.GET("/users/:id/balance", transactionHandler.Balance)
	v1.GET("/transactions/:txid", transactionHandler.Get)

	// --- Health probes and metrics ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
