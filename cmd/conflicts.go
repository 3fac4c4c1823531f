package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmedNJ467/koormatics-dispatch/config"
	"github.com/ahmedNJ467/koormatics-dispatch/core/conflict"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/booking"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/logger"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/storage"
	"github.com/ahmedNJ467/koormatics-dispatch/pkg/export"
)

var conflictsFormat string

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Scan trips for driver schedule conflicts",
	RunE:  runConflicts,
}

func init() {
	conflictsCmd.Flags().StringVarP(&conflictsFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	trips, err := loadTrips(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	det := conflict.Detector{ThresholdMinutes: cfg.Dispatch.ConflictThresholdMinutes}
	rep := det.Find(trips)

	switch conflictsFormat {
	case "csv":
		return export.WriteConflictsCSV(cmd.OutOrStdout(), rep)
	case "json":
		return export.WriteConflictsJSON(cmd.OutOrStdout(), rep)
	default:
		return fmt.Errorf("unknown format %s", conflictsFormat)
	}
}

// loadTrips reads the trip set from the configured backend without
// starting the full service.
func loadTrips(ctx context.Context, cfg *config.Config) ([]model.Trip, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		defer func() { _ = s.Close() }()
		return s.ListTrips(ctx)
	case "booking":
		c := booking.NewClient(cfg.Booking, logger.New("conflicts"))
		return c.ListTrips(ctx)
	default:
		return nil, fmt.Errorf("backend %s holds no persistent trips", cfg.Storage.Backend)
	}
}
