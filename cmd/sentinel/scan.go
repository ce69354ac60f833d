package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsepredict/sentinel/internal/cli"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single sync and print the snapshot",
	Long:  `Performs one synchronization pass against the backend (falling back to the built-in dataset) and prints the result.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		opts := cli.WatchOptions{
			BaseURL:       cfg.Source.BaseURL,
			SourceTimeout: cfg.Source.Timeout,
			ScanAttempts:  cfg.Source.ScanAttempts,
		}
		opts.Debug, _ = cmd.Flags().GetBool("debug")
		jsonOut, _ := cmd.Flags().GetBool("json")

		if err := cli.RunScan(opts, jsonOut); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("json", false, "Print the snapshot as JSON")
}
