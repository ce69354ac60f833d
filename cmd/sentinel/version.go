package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pulsepredict/sentinel"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sentinel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentinel version %s\n", strings.TrimSpace(sentinel.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
