package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/documents"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/exchange"
	"hrms/internal/domain/offboarding"
	"hrms/internal/platform/config"
	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/rbac"
	"hrms/internal/platform/storage"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	employeehandler "hrms/internal/transport/http/handlers/employees"
	systemhandler "hrms/internal/transport/http/handlers/system"
	"hrms/internal/transport/http/middleware"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 15 * time.Second
)

type App struct {
	Config config.Config
	Logger *slog.Logger
	DB     *pgxpool.Pool
	Router http.Handler
}

// Stores are the persistence backends behind the router. The server uses the
// pgx implementations; tests and dry runs pass the in-memory ones.
type Stores struct {
	Employees   employee.StoreAPI
	Offboarding offboarding.StoreAPI
	Documents   documents.StoreAPI
	Users       auth.StoreAPI
	Audit       audit.Trail
	Idempotency middleware.Idempotency
	Ready       systemhandler.Pinger
}

func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Employees:   employee.NewStore(pool),
		Offboarding: offboarding.NewStore(pool),
		Documents:   documents.NewStore(pool),
		Users:       auth.NewStore(pool),
		Audit:       audit.New(pool),
		Idempotency: middleware.NewIdempotencyStore(pool),
		Ready:       pool,
	}
}

// NewLogger installs a JSON slog handler as the process default.
func NewLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Environment == "development" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// New connects to PostgreSQL, applies migrations and the seed when enabled,
// and builds the router.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	router, err := NewRouter(cfg, PostgresStores(pool), logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &App{Config: cfg, Logger: logger, DB: pool, Router: router}, nil
}

func NewRouter(cfg config.Config, stores Stores, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}
	blobs, err := storage.NewLocal(cfg.StorageDir, crypto)
	if err != nil {
		return nil, err
	}
	policy, err := rbac.LoadPolicy(cfg.RBACPolicyFile)
	if err != nil {
		return nil, err
	}
	perms, err := rbac.New(policy)
	if err != nil {
		return nil, err
	}
	rate, err := middleware.ParseRate(cfg.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT: %w", err)
	}
	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	employees := employee.NewService(stores.Employees, employee.Options{
		ManagerPolicy: cfg.ManagerAmbiguity,
		Settlement: employee.SettlementRates{
			PendingSalary:   cfg.SettlementPending,
			LeaveEncashment: cfg.SettlementLeave,
			Gratuity:        cfg.SettlementGratuity,
			Deductions:      cfg.SettlementDeduction,
		},
	}, logger)
	authService := auth.NewService(stores.Users, crypto, email.New(cfg, logger), auth.Options{
		Secret:    cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		ResetTTL:  cfg.ResetTokenTTL,
		EmailFrom: cfg.EmailFrom,
	}, logger)

	employeeHandler := &employeehandler.Handler{
		Employees:       employees,
		Exchange:        exchange.NewService(employees, collector, logger),
		Offboarding:     offboarding.NewService(stores.Offboarding, employees, logger),
		Documents:       documents.NewService(stores.Documents, blobs, employees, apiPrefix, logger),
		Perms:           perms,
		Audit:           stores.Audit,
		Idempotency:     stores.Idempotency,
		DirectoryPolicy: cfg.PublicDirectory,
		Logger:          logger,
	}
	system := systemhandler.NewHandler(collector, stores.Ready, perms)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes, cfg.MaxUploadBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	system.RegisterProbes(router)

	router.Route(apiPrefix, func(r chi.Router) {
		r.Use(middleware.RateLimit(rate))
		r.Use(middleware.SensitiveMutationRateLimit(rate))

		authhandler.NewHandler(authService, perms, stores.Audit).RegisterRoutes(r)
		employeeHandler.RegisterRoutes(r)
		audithandler.NewHandler(stores.Audit, perms).RegisterRoutes(r)
		system.RegisterRoutes(r)
	})
	return router, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errs := make(chan error, 1)
	go func() {
		a.Logger.Info("hrms server listening", "addr", a.Config.Addr, "env", a.Config.Environment)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("hrms server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
