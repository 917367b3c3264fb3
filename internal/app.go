// internal/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	router "finledger/internal/api"
	"finledger/internal/amqp"
	"finledger/internal/api/handler"
	"finledger/internal/cache"
	"finledger/internal/config"
	"finledger/internal/repository"
	"finledger/internal/repository/sqlstore"
	"finledger/internal/service"
	"finledger/internal/util"
	"finledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	TransactionRepository repository.TransactionRepository

	// Supporting infrastructure
	UserCache *cache.UserCache
	Events    *amqp.Client // nil when AMQP_URL is unset

	// Services
	UserService        service.UserService
	TransactionService service.TransactionService
	ReportService      service.ReportService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.", "db_driver", cfg.DB.Driver)

	// 3. Connect to Database (migrations run on open)
	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = sqlstore.NewUserRepository()
	app.TransactionRepository = sqlstore.NewTransactionRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize cache and event publisher
	app.UserCache, err = cache.NewUserCache(cfg.UserCache.MaxCost, cfg.UserCache.TTL)
	if err != nil {
		return err
	}

	var publisher service.TransactionEventPublisher
	if cfg.AMQP.URL != "" {
		app.Events, err = amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		publisher = app.Events
		app.Logger.Info("AMQP publisher connected.", "exchange", cfg.AMQP.Exchange)
	} else {
		app.Logger.Info("AMQP_URL not set, transaction events disabled.")
	}

	// 6. Initialize Services
	app.UserService = service.NewUserService(app.DB, app.UserRepository, app.UserCache)
	app.TransactionService = service.NewTransactionService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.TransactionRepository,
		app.UserCache,
		publisher,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.ReportService = service.NewReportService(app.DB, app.UserRepository, app.TransactionRepository, app.UserCache)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	app.HTTPHandler = router.NewRouter(router.Handlers{
		Users:        handler.NewUserHandler(app.UserService, app.Logger),
		Transactions: handler.NewTransactionHandler(app.TransactionService, app.Logger),
		Summaries:    handler.NewSummaryHandler(app.ReportService, app.Logger),
	})
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// writeTimeoutMargin leaves the timeout middleware room to send its 504
// before the server drops the connection.
const writeTimeoutMargin = 5 * time.Second

// NewHTTPServer builds the HTTP server for the initialized application.
func (app *Application) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + app.Config.ServerPort,
		Handler:      app.HTTPHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: handler.DefaultTimeout + writeTimeoutMargin,
		IdleTimeout:  120 * time.Second,
	}
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	logger := app.Logger
	if logger == nil {
		logger = util.GetLogger()
	}
	logger.Info("Shutting down application...")

	var errs []error
	if app.Events != nil {
		if err := app.Events.Close(); err != nil {
			logger.Error("Failed to close AMQP client", "error", err)
			errs = append(errs, fmt.Errorf("failed to close AMQP client: %w", err))
		}
	}
	if app.UserCache != nil {
		app.UserCache.Close()
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Failed to close database connection", "error", err)
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		} else {
			logger.Info("Database connection closed.")
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Info("Application shut down gracefully.")
	return nil
}
