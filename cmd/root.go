package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ahmedNJ467/koormatics-dispatch/app"
	"github.com/ahmedNJ467/koormatics-dispatch/config"
	"github.com/ahmedNJ467/koormatics-dispatch/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "koormatics-dispatch",
	Short: "Fleet dispatch and assignment service",
	Long: `koormatics-dispatch allocates drivers and vehicles to trips,
checks time-window availability, flags driver double-bookings and
records every committed assignment. Run without a subcommand to start
the HTTP service.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI with signal-driven shutdown.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logger.New("main").Errorf("service close: %v", cerr)
		}
	}()
	return svc.Run(cmd.Context())
}
