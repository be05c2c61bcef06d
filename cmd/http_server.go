package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/javokhirdev/rental-management/internal"
	"github.com/javokhirdev/rental-management/internal/auth"
	authPostgres "github.com/javokhirdev/rental-management/internal/auth/postgres"
	"github.com/javokhirdev/rental-management/internal/category"
	categoryPostgres "github.com/javokhirdev/rental-management/internal/category/postgres"
	"github.com/javokhirdev/rental-management/internal/core/events"
	"github.com/javokhirdev/rental-management/internal/lending"
	lendingPostgres "github.com/javokhirdev/rental-management/internal/lending/postgres"
	"github.com/javokhirdev/rental-management/internal/product"
	productPostgres "github.com/javokhirdev/rental-management/internal/product/postgres"
	"github.com/javokhirdev/rental-management/internal/report"
	reportPostgres "github.com/javokhirdev/rental-management/internal/report/postgres"
	"github.com/javokhirdev/rental-management/internal/sale"
	salePostgres "github.com/javokhirdev/rental-management/internal/sale/postgres"
	"github.com/javokhirdev/rental-management/internal/tariff"
	tariffPostgres "github.com/javokhirdev/rental-management/internal/tariff/postgres"
	"github.com/javokhirdev/rental-management/internal/transport/rest"
	"github.com/javokhirdev/rental-management/internal/user"
	userPostgres "github.com/javokhirdev/rental-management/internal/user/postgres"
	"github.com/javokhirdev/rental-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	EventBus *events.EventBus
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	env := "development"
	if config.Observability.Logging.Format == "json" {
		env = "production"
	}
	logger.Init(env)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM rides on the same pgx connection pool the health check pings.
	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	registerEventHandlers(eventBus, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gormDB), tokenGen)
	authHandler := auth.NewHandler(authService)

	tariffService := tariff.NewService(tariffPostgres.NewTariffRepository(gormDB), lg)
	tariffHandler := tariff.NewHandler(tariffService)

	userService := user.NewService(userPostgres.NewUserRepository(gormDB), tariffService, lg)
	userHandler := user.NewHandler(userService)

	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(gormDB), tariffService, lg)
	categoryHandler := category.NewHandler(categoryService)

	productService := product.NewService(productPostgres.NewProductRepository(gormDB), tariffService, userService, lg)
	productHandler := product.NewHandler(productService)

	lendingService := lending.NewService(lendingPostgres.NewLendingRepository(gormDB), userService, authService, eventBus, lg)
	lendingHandler := lending.NewHandler(lendingService)

	saleService := sale.NewService(salePostgres.NewSaleRepository(gormDB), userService, authService, eventBus, lg)
	saleHandler := sale.NewHandler(saleService)

	reportService := report.NewService(reportPostgres.NewReportRepository(gormDB), userService, authService, lg)
	reportHandler := report.NewHandler(reportService)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: chi.NewRouter(),
		Handlers: rest.Handlers{
			Auth:     authHandler,
			User:     userHandler,
			Category: categoryHandler,
			Product:  productHandler,
			Lending:  lendingHandler,
			Sale:     saleHandler,
			Tariff:   tariffHandler,
			Report:   reportHandler,
		},
		EventBus: eventBus,
	}, nil
}

// registerEventHandlers attaches the audit-log subscribers for lifecycle
// events. Revenue itself is recomputed from rows, not from events.
func registerEventHandlers(bus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		lg.Info("lifecycle event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		events.EventTypeLendingCreated,
		events.EventTypeLendingReturned,
		events.EventTypeSaleCreated,
		events.EventTypeSaleCancelled,
		events.EventTypeSaleReinstated,
	} {
		bus.Subscribe(eventType, audit)
	}
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
