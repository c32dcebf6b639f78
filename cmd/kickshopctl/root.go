package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kickshopctl",
	Short: "Kick Shopping API server and tooling",
	Long:  `Run and manage the Kick Shopping API server, database and configuration.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
