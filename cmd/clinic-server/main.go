package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/config"
	"github.com/clinic/clinic/internal/domain/clinic"
	"github.com/clinic/clinic/internal/platform/metrics"
	"github.com/clinic/clinic/internal/platform/middleware"
	"github.com/clinic/clinic/internal/platform/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinic-server",
		Short:         "Clinic management API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// seedFlags are shared by every command that builds a dataset.
type seedFlags struct {
	seed       int64
	vocabulary string
}

func (f *seedFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for the generated dataset (overrides SEED)")
	cmd.Flags().StringVar(&f.vocabulary, "vocabulary", "", "YAML vocabulary file (overrides SEED_VOCABULARY_FILE)")
}

func (f *seedFlags) apply(cfg *config.Config) {
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	if f.vocabulary != "" {
		cfg.SeedVocabularyFile = f.vocabulary
	}
}

func serveCmd() *cobra.Command {
	var flags seedFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Seed the store and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			flags.apply(cfg)
			return runServer(cfg, logger)
		},
	}
	flags.register(cmd)
	return cmd
}

func seedCmd() *cobra.Command {
	var flags seedFlags
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a dataset and print the record counts as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			flags.apply(cfg)
			_, res, err := buildStore(cfg, logger)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	return cmd
}

func statsCmd() *cobra.Command {
	var (
		flags seedFlags
		date  string
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Generate a dataset and print the dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			flags.apply(cfg)
			if date == "" {
				date = time.Now().UTC().Format(clinic.DateLayout)
			} else if _, err := time.Parse(clinic.DateLayout, date); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			store, _, err := buildStore(cfg, logger)
			if err != nil {
				return err
			}
			svc := clinic.NewService(store, logger, nil)
			return writeJSON(cmd.OutOrStdout(), svc.Statistics(date))
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&date, "date", "", "statistics date as YYYY-MM-DD (default today, UTC)")
	return cmd
}

// setup loads and validates the configuration and builds the process logger.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid config: %w", err)
	}
	return cfg, newLogger(cfg, os.Stderr), nil
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	w := out
	if cfg.IsDev() {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	level, err := cfg.Level()
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func seedConfig(cfg *config.Config) (seed.Config, error) {
	start, err := cfg.SeedStart()
	if err != nil {
		return seed.Config{}, err
	}
	return seed.Config{
		Doctors:         cfg.SeedDoctors,
		Patients:        cfg.SeedPatients,
		Visits:          cfg.SeedVisits,
		Medicines:       cfg.SeedMedicines,
		Rooms:           cfg.SeedRooms,
		Start:           start,
		Seed:            cfg.Seed,
		DoctorRefRange:  cfg.SeedDoctorRefs,
		PatientRefRange: cfg.SeedPatientRefs,
	}, nil
}

func vocabulary(path string) (seed.Vocabulary, error) {
	if path == "" {
		return seed.DefaultVocabulary(), nil
	}
	return seed.LoadVocabulary(path)
}

// buildStore creates an empty store and fills it with the generated dataset.
func buildStore(cfg *config.Config, logger zerolog.Logger) (*clinic.Store, *seed.Result, error) {
	sc, err := seedConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	vocab, err := vocabulary(cfg.SeedVocabularyFile)
	if err != nil {
		return nil, nil, err
	}

	store := clinic.NewStore()
	res, err := seed.NewGenerator(sc, vocab).Generate(store)
	if err != nil {
		return nil, nil, fmt.Errorf("seed store: %w", err)
	}
	logger.Info().
		Int64("seed", res.Seed).
		Int("total", res.Total).
		Dur("duration", res.Duration).
		Msg("store seeded")
	return store, res, nil
}

// newServer wires middleware and routes. m may be nil when metrics are off.
func newServer(cfg *config.Config, svc *clinic.Service, m *metrics.Metrics, logger zerolog.Logger) (*echo.Echo, error) {
	bodyLimit, err := cfg.BodyLimitBytes()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{"Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(bodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	if cfg.RateLimitRPS > 0 {
		e.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		}))
	}

	h := clinic.NewHandler(svc)
	h.RegisterRoutes(e.Group("/api/v1"))
	e.GET("/healthz", h.Health)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	return e, nil
}

func runServer(cfg *config.Config, logger zerolog.Logger) error {
	store, _, err := buildStore(cfg, logger)
	if err != nil {
		return err
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}
	svc := clinic.NewService(store, logger, m)
	svc.SyncMetrics()

	e, err := newServer(cfg, svc, m, logger)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
