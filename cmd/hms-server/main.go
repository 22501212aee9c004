package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
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

	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/config"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/account"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/clinical"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/hospital"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/medication"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/profile"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/domain/scheduling"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/apierr"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/auth"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/blobstore"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/customid"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/db"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/logging"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/internal/platform/middleware"
	"github.com/Ashu0609-cyber/OMCBS-mini-project/migrations"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital management API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

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

// migrationFiles returns the SQL files to apply: dir when given, otherwise
// the set embedded in the binary.
func migrationFiles(dir string) fs.FS {
	if dir == "" {
		return migrations.FS
	}
	return os.DirFS(dir)
}

// openMigrator loads config, connects and returns a migrator with the
// schema to target.
func openMigrator(ctx context.Context, cmd *cobra.Command) (*db.Migrator, *pgxpool.Pool, string, error) {
	schema, _ := cmd.Flags().GetString("schema")
	dir, _ := cmd.Flags().GetString("dir")

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, "", err
	}
	if schema == "" {
		schema = cfg.DBSchema
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, schema, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, "", err
	}
	return db.NewMigrator(pool, migrationFiles(dir)), pool, schema, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, pool, schema, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			fmt.Printf("Running migrations on schema: %s\n", schema)
			count, err := migrator.Up(ctx, schema)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, pool, schema, err := openMigrator(ctx, cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := migrator.Status(ctx, schema)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(os.Stdout, schema, statuses)
			return nil
		},
	}

	for _, c := range []*cobra.Command{upCmd, statusCmd} {
		c.Flags().String("schema", "", "Target schema (defaults to DB_SCHEMA)")
		c.Flags().String("dir", "", "Migrations directory (defaults to the embedded set)")
		cmd.AddCommand(c)
	}
	return cmd
}

func printStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

// revocationStore picks Redis when REDIS_URL is set so logouts are shared
// between replicas, and an in-process store otherwise.
func revocationStore(ctx context.Context, redisURL string, logger zerolog.Logger) (auth.RevocationStore, func(), error) {
	if redisURL == "" {
		mem := auth.NewMemoryRevocationStore(time.Minute)
		logger.Warn().Msg("REDIS_URL not set; refresh-token revocations are kept in memory")
		return mem, mem.Close, nil
	}
	rdb, err := auth.NewRedisClient(ctx, redisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("connected to redis")
	return auth.NewRedisRevocationStore(rdb), func() { rdb.Close() }, nil
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Logger
	logger, logCloser := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Console: cfg.IsDev(),
		File:    cfg.LogFile,
	})
	defer logCloser.Close()

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	revoked, closeRevoked, err := revocationStore(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer closeRevoked()

	store, err := blobstore.NewDiskStore(cfg.MediaDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open media directory")
	}

	issuer := auth.NewIssuer(auth.TokenConfig{
		SigningKey: []byte(cfg.JWTSigningKey),
		Issuer:     cfg.JWTIssuer,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	})
	ids := customid.New(
		db.UniqueViolationOn(account.ConstraintCustomID, hospital.ConstraintCustomID, scheduling.ConstraintCustomID),
		customid.WithMaxAttempts(cfg.CustomIDMaxAttempts),
		customid.WithLogger(logger.With().Str("component", "customid").Logger()),
	)
	txRunner := db.NewTxRunner(pool)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apierr.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit, cfg.UploadLimit))
	e.Use(auth.Middleware(issuer, auth.Skipper(cfg.MediaURLPrefix)))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api := e.Group("", middleware.RateLimit(rateLimitCfg))

	// Health and media
	e.GET("/health", db.LivenessHandler())
	e.GET("/health/db", db.HealthHandler(pool, func() *db.PoolStats { return db.GetPoolStats(pool) }))
	blobstore.NewHandler(store).RegisterRoutes(e, cfg.MediaURLPrefix)

	// Profiles
	profileRepo := profile.NewRepo(pool)
	profileSvc := profile.NewService(profileRepo, store, cfg.PhoneDefaultRegion, logger)
	profile.NewHandler(profileSvc, store, cfg.MediaURLPrefix).RegisterRoutes(api)

	// Accounts
	accountSvc := account.NewService(account.NewRepo(pool), profileRepo, ids, issuer, revoked,
		account.Config{BcryptCost: cfg.BcryptCost, PhoneRegion: cfg.PhoneDefaultRegion}, logger)
	account.NewHandler(accountSvc).RegisterRoutes(api)

	// Hospitals
	hospitalSvc := hospital.NewService(hospital.NewRepo(pool), txRunner, ids, store, cfg.PhoneDefaultRegion, logger)
	hospital.NewHandler(hospitalSvc, store, cfg.MediaURLPrefix).RegisterRoutes(api)

	// Appointments
	schedulingSvc := scheduling.NewService(scheduling.NewRepo(pool), txRunner, ids, logger)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)

	// Reports and articles
	clinicalSvc := clinical.NewService(clinical.NewReportRepo(pool), clinical.NewArticleRepo(pool),
		schedulingSvc, store, logger)
	clinical.NewHandler(clinicalSvc, store).RegisterRoutes(api)

	// Medications and prescriptions
	medicationSvc := medication.NewService(medication.NewMedicationRepo(pool), medication.NewPrescriptionRepo(pool),
		schedulingSvc, logger)
	medication.NewHandler(medicationSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
