package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pulsepredict/sentinel/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Sentinel is the Pulse Predict command console",
	Long: `Sentinel keeps a hospital command dashboard in sync with the Pulse
Predict backend, degrades to a built-in dataset when the backend is offline,
and executes the agent's recommended actions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("source", "", "Base URL of the snapshot service (overrides config)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig resolves the file/env configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if source, _ := cmd.Flags().GetString("source"); source != "" {
		cfg.Source.BaseURL = source
	}
	return cfg, nil
}
