// Package main provides the recalibration worker entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/health"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/repository"
	"github.com/yourusername/sharp-picks/internal/scheduler"
	"github.com/yourusername/sharp-picks/internal/service"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	recal      *service.RecalibrationService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "recalibrate",
	Short: "Run calibration batches over settled prop samples",
	Long: `Reads settled prediction samples from the append-only store, scores
each configured segment and replaces its derived buckets and isotonic
mapping atomically.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one recalibration batch for every configured segment",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return runOnce()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler daemon with health endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return serve()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	mappings := service.NewCachedMappingProvider(
		repos.Calibration,
		time.Duration(cfg.Projections.CacheTTLSeconds)*time.Second,
	)
	recal = service.NewRecalibrationService(repos.Samples, repos.Calibration, mappings, &cfg.Calibration, appLog)

	return nil
}

func runOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	lookback := time.Duration(cfg.Calibration.LookbackDays) * 24 * time.Hour
	since := time.Now().Add(-lookback)

	failures := 0
	for _, segment := range cfg.Calibration.Segments {
		job := service.RecalibrationJob{
			MappingKey: models.MappingKey{Engine: segment.Engine, Sport: segment.Sport, BetType: segment.BetType},
			BucketKey:  models.BucketKey{Engine: segment.Engine, Sport: segment.Sport, Window: segment.Window},
			Since:      since,
		}

		summary, err := recal.Run(ctx, job)
		if err != nil {
			appLog.WithError(err).WithField("segment", job.MappingKey.String()).Error("Recalibration batch failed")
			failures++
			continue
		}

		appLog.WithFields(logrus.Fields{
			"segment": job.MappingKey.String(),
			"samples": summary.SampleCount,
			"brier":   summary.Decomposition.BrierScore,
			"grade":   summary.Grade.Grade,
		}).Info("Recalibration batch completed")
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d segments failed", failures, len(cfg.Calibration.Segments))
	}
	return nil
}

func serve() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(recal, appLog)
	lookback := time.Duration(cfg.Calibration.LookbackDays) * 24 * time.Hour
	for _, segment := range cfg.Calibration.Segments {
		if err := sched.ScheduleRecalibration(cfg.Calibration.Schedule, segment, lookback); err != nil {
			return fmt.Errorf("failed to schedule segment: %w", err)
		}
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name + "-recalibrate",
		Version:     Version,
		Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"segments": len(cfg.Calibration.Segments),
		"schedule": cfg.Calibration.Schedule,
		"next_run": sched.NextRun(),
	}).Info("Recalibration worker running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}
	cancel()

	appLog.Info("Recalibration worker shut down successfully")
	return nil
}
