package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bloodlink/bloodlink/internal/config"
	"github.com/bloodlink/bloodlink/internal/domain/analytics"
	"github.com/bloodlink/bloodlink/internal/domain/camp"
	"github.com/bloodlink/bloodlink/internal/domain/chat"
	"github.com/bloodlink/bloodlink/internal/domain/donor"
	"github.com/bloodlink/bloodlink/internal/domain/emergency"
	"github.com/bloodlink/bloodlink/internal/domain/hospital"
	"github.com/bloodlink/bloodlink/internal/domain/identity"
	"github.com/bloodlink/bloodlink/internal/domain/inventory"
	"github.com/bloodlink/bloodlink/internal/domain/recipient"
	"github.com/bloodlink/bloodlink/internal/domain/request"
	"github.com/bloodlink/bloodlink/internal/domain/rewards"
	"github.com/bloodlink/bloodlink/internal/platform/auth"
	"github.com/bloodlink/bloodlink/internal/platform/db"
	"github.com/bloodlink/bloodlink/internal/platform/eraktkosh"
	"github.com/bloodlink/bloodlink/internal/platform/httpx"
	"github.com/bloodlink/bloodlink/internal/platform/middleware"
	"github.com/bloodlink/bloodlink/internal/platform/notify"
	"github.com/bloodlink/bloodlink/internal/platform/sandbox"
	"github.com/bloodlink/bloodlink/internal/platform/ws"
	"github.com/bloodlink/bloodlink/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bloodlink-server",
		Short: "Blood bank management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				count, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Printf("Applied %d migration(s).\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("%-10s %-30s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
				for _, s := range statuses {
					status := "pending"
					appliedAt := ""
					if s.Applied {
						status = "applied"
						if s.AppliedAt != nil {
							appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
					}
					fmt.Printf("%-10d %-30s %-10s %s\n", s.Version, s.Name, status, appliedAt)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Drop everything and re-apply migrations (development only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				if !cfg.IsDev() {
					return fmt.Errorf("migrate reset is only allowed in development")
				}
				count, err := db.NewMigrator(pool, migrations.FS).Reset(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Schema reset; applied %d migration(s).\n", count)
				return nil
			})
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				logger := newLogger(cfg)
				result, err := sandbox.NewSeeder(pool, sandbox.DefaultSeedConfig(), logger).Run(ctx)
				if err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				fmt.Printf("Seeded: %d donors, %d recipients, %d hospitals, %d specimens, %d requests, %d emergencies, %d camps\n",
					result.Donors, result.Recipients, result.Hospitals,
					result.Specimens, result.Requests, result.Emergencies, result.Camps)
				return nil
			})
		},
	}
}

// withPool loads config, opens a pool, runs fn and closes the pool. Shared
// by the one-shot subcommands.
func withPool(fn func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, cfg, pool)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Hour)

	// In development notifications are logged, not delivered. A production
	// deployment swaps in real email and SMS gateways here.
	sender := &notify.LogSender{Logger: logger}
	notifier := notify.NewEngine(sender, sender, notify.NewTemplateEngine())

	hub := ws.NewHub()

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.WithTx(ctx, pool, fn)
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpx.ErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(auth.Middleware(issuer))

	api := e.Group("/api")
	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	e.GET("/health", db.HealthHandler(pool))

	// Domain wiring. Services cross-connect through narrow interfaces:
	// requests draw down inventory stock, emergencies find donors and
	// credit rewards.
	donorSvc := donor.NewService(donor.NewRepoPG(pool))
	donor.NewHandler(donorSvc).RegisterRoutes(api)

	recipientSvc := recipient.NewService(recipient.NewRepoPG(pool))
	recipient.NewHandler(recipientSvc).RegisterRoutes(api)

	hospitalSvc := hospital.NewService(hospital.NewRepoPG(pool), issuer, notifier, logger)
	hospital.NewHandler(hospitalSvc).RegisterRoutes(api)

	identitySvc := identity.NewService(identity.NewRepoPG(pool), issuer)
	identity.NewHandler(identitySvc).RegisterRoutes(api)

	inventorySvc := inventory.NewService(
		inventory.NewSpecimenRepoPG(pool), inventory.NewStockRepoPG(pool),
		inTx, hub, logger, cfg.LowStockThreshold, cfg.ExpiryWindowDays)
	inventory.NewHandler(inventorySvc).RegisterRoutes(api)

	requestSvc := request.NewService(request.NewRepoPG(pool), inventorySvc, inTx, notifier, hub, logger)
	request.NewHandler(requestSvc).RegisterRoutes(api)

	rewardsSvc := rewards.NewService(rewards.NewRepoPG(pool), inTx, hub, logger, rewards.Points{
		Donation:   cfg.RewardDonationPoints,
		Emergency:  cfg.RewardEmergencyPoints,
		Thresholds: [4]int{cfg.RewardT1, cfg.RewardT2, cfg.RewardT3, cfg.RewardT4},
	})
	rewards.NewHandler(rewardsSvc).RegisterRoutes(api)

	emergencySvc := emergency.NewService(
		emergency.NewRepoPG(pool), donorSvc, rewardsSvc, inTx,
		notifier, hub, logger, time.Duration(cfg.EmergencyTTLHours)*time.Hour)
	emergency.NewHandler(emergencySvc).RegisterRoutes(api)

	campSvc := camp.NewService(camp.NewRepoPG(pool), donorSvc, notifier, logger)
	camp.NewHandler(campSvc).RegisterRoutes(api)

	chatSvc := chat.NewService(chat.NewRepoPG(pool), hub, logger)
	chat.NewHandler(chatSvc).RegisterRoutes(api)

	analyticsSvc := analytics.NewService(analytics.NewRepoPG(pool), cfg.LowStockThreshold, cfg.ExpiryWindowDays)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api)

	// eRaktKosh shim: the built-in mock unless a gateway URL is configured.
	var stockProvider eraktkosh.StockProvider
	var facilityRegistry eraktkosh.FacilityRegistry
	if cfg.ERaktKoshBaseURL != "" {
		client := eraktkosh.NewRestyClient(cfg.ERaktKoshBaseURL, logger)
		stockProvider, facilityRegistry = client, client
		logger.Info().Str("base_url", cfg.ERaktKoshBaseURL).Msg("eraktkosh gateway configured")
	} else {
		mock := eraktkosh.NewMockProvider(time.Now().UnixNano())
		stockProvider, facilityRegistry = mock, mock
	}
	eraktkosh.NewHandler(stockProvider, facilityRegistry).RegisterRoutes(api)

	ws.NewHandler(hub).RegisterRoutes(e)

	// Serve with graceful shutdown.
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
		return err
	}
	return nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
