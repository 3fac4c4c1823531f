package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmedNJ467/koormatics-dispatch/config"
	"github.com/ahmedNJ467/koormatics-dispatch/core/availability"
	"github.com/ahmedNJ467/koormatics-dispatch/core/model"
	"github.com/ahmedNJ467/koormatics-dispatch/core/schedule"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/logger"
)

var (
	availKind    string
	availID      string
	availDate    string
	availStart   string
	availReturn  string
	availExclude string
)

var availabilityCmd = &cobra.Command{
	Use:   "availability",
	Short: "Check whether a driver or vehicle is free for a time window",
	RunE:  runAvailability,
}

func init() {
	availabilityCmd.Flags().StringVar(&availKind, "kind", "driver", "resource kind: driver or vehicle")
	availabilityCmd.Flags().StringVar(&availID, "id", "", "resource id")
	availabilityCmd.Flags().StringVar(&availDate, "date", "", "trip date (YYYY-MM-DD)")
	availabilityCmd.Flags().StringVar(&availStart, "start", "", "start time (HH:MM)")
	availabilityCmd.Flags().StringVar(&availReturn, "return", "", "return time (HH:MM)")
	availabilityCmd.Flags().StringVar(&availExclude, "exclude-trip", "", "trip id being edited, excluded from the check")
	_ = availabilityCmd.MarkFlagRequired("id")
	_ = availabilityCmd.MarkFlagRequired("date")
	_ = availabilityCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(availabilityCmd)
}

func runAvailability(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	kind, ok := model.ParseResourceKind(availKind)
	if !ok {
		return fmt.Errorf("kind must be driver or vehicle, got %s", availKind)
	}
	trips, err := loadTrips(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	window := schedule.Build(availDate, availStart, availReturn, 0)
	checker := availability.NewChecker(logger.New("availability"))
	res := checker.Check(model.ResourceRef{Kind: kind, ID: availID}, window, trips, availability.Options{
		BufferHours:   cfg.Dispatch.BufferHours,
		ExcludeTripID: availExclude,
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
