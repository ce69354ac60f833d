package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsepredict/sentinel/internal/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the live dashboard",
	Long:  `Starts the interactive dashboard: an immediate sync, background polling, and keyboard-driven action execution.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		opts := cli.WatchOptions{
			BaseURL:       cfg.Source.BaseURL,
			Interval:      cfg.Sync.Interval,
			FallbackDelay: cfg.Sync.FallbackDelay,
			SourceTimeout: cfg.Source.Timeout,
			ScanAttempts:  cfg.Source.ScanAttempts,
		}
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		if cmd.Flags().Changed("interval") {
			opts.Interval, _ = cmd.Flags().GetDuration("interval")
		}

		if err := cli.RunWatch(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationP("interval", "i", 0, "Polling interval (overrides config)")

	// Make 'watch' the default if no command is provided.
	rootCmd.Run = watchCmd.Run
}
