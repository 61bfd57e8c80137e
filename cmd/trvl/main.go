package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trvl",
	Short: "TRVL — trip planning API",
	Long:  "TRVL is the backend for the TRVL trip planner: a backlog of candidate activities, trips composed of ordered legs and travel segments, an hour-by-day schedule grid, and Google sign-in sessions.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/trvl.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
