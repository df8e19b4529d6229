// Package main provides the outreach_agent CLI for company contact discovery.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "outreach_agent",
	Short:        "Outreach contact discovery",
	Long:         "Suggests plausible outreach addresses for a company: departmental inboxes plus low-confidence patterns for people listed on the company's own site.",
	SilenceUsage: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (overrides environment)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const (
	formatJSON = "json"
	formatText = "text"
)

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatText:
		return nil
	default:
		return fmt.Errorf("invalid --format %q: expected %s or %s", format, formatJSON, formatText)
	}
}
