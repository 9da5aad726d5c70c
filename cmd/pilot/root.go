package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "pilot",
	Short:         "MCP browser automation server",
	Long:          "Pilot exposes browser automation (navigate, click, fill, evaluate, screenshot) to MCP clients over stdio.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pilot version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pilot v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default ~/.pilot/config.yaml)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}
