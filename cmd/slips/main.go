// Package main provides the slip builder entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/sharp-picks/internal/config"
	"github.com/yourusername/sharp-picks/internal/database"
	"github.com/yourusername/sharp-picks/internal/logger"
	"github.com/yourusername/sharp-picks/internal/metrics"
	"github.com/yourusername/sharp-picks/internal/models"
	"github.com/yourusername/sharp-picks/internal/projections"
	"github.com/yourusername/sharp-picks/internal/repository"
	"github.com/yourusername/sharp-picks/internal/selection"
	"github.com/yourusername/sharp-picks/internal/service"
)

var (
	configFile string
	sport      string
	date       string
	engine     string
	betType    string
	asJSON     bool

	appLog *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
	slips  *service.SlipService
	feed   projections.Client
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&sport, "sport", "nba", "Sport slate to fetch")
	rootCmd.Flags().StringVar(&date, "date", time.Now().UTC().Format("2006-01-02"), "Slate date (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&engine, "engine", "props_v2", "Prediction engine whose mapping to apply")
	rootCmd.Flags().StringVar(&betType, "bet-type", "player_prop", "Bet type segment")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Print the full outcome as JSON")
}

var rootCmd = &cobra.Command{
	Use:   "slips",
	Short: "Build a slip from today's projection slate",
	Long: `Fetches the prop slate from the projection feed, remaps raw model
confidence through the segment's stored isotonic mapping, gates the
pool and fills the three slip slots.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return buildSlip()
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
	db, err = database.NewDB(ctx, &cfg.Database)
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
	slips, err = service.NewSlipService(mappings, &cfg.Gates, &cfg.Slots, appLog)
	if err != nil {
		return fmt.Errorf("failed to build slip service: %w", err)
	}

	feed = projections.NewHTTPClient(&cfg.Projections, appLog)
	return nil
}

func buildSlip() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	candidates, err := feed.FetchSlate(ctx, sport, date)
	if err != nil {
		return fmt.Errorf("failed to fetch slate: %w", err)
	}

	outcome, err := slips.BuildSlip(ctx, service.CycleRequest{
		Key:        models.MappingKey{Engine: engine, Sport: sport, BetType: betType},
		Candidates: candidates,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	printOutcome(outcome)
	return nil
}

func printOutcome(outcome *selection.Outcome) {
	slip := outcome.Slip
	if !slip.Valid {
		fmt.Println("\nNo valid slip for this slate.")
		fmt.Printf("Unfilled slots: %v\n", slip.MissingSlots)
		fmt.Printf("Candidates evaluated: %d\n\n", len(outcome.Evaluations))
		return
	}

	fmt.Printf("\nSlip built at %s\n\n", slip.CreatedAt.Format(time.RFC3339))
	for _, leg := range slip.Legs {
		c := leg.Candidate
		fmt.Printf("  [%s] %s (%s) %s %.1f %s\n",
			leg.Slot, c.PlayerName, c.Team, c.Category, c.Line, c.Direction)
		fmt.Printf("        confidence %.1f%%  edge %.2f\n", c.CalibratedConfidence, c.Edge())
		for _, driver := range leg.Drivers {
			fmt.Printf("        - %s\n", driver)
		}
	}
	fmt.Println()
}
