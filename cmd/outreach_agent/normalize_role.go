package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/contact-finder/internal/roles"
)

var normalizeRoleCmd = &cobra.Command{
	Use:   "normalize-role",
	Short: "Print the outreach intent for a free-text role",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, _ = fmt.Fprintln(os.Stdout, roles.NormalizeRole(normalizeRoleInput))
		return nil
	},
}

var normalizeRoleInput string

func init() {
	normalizeRoleCmd.Flags().StringVarP(&normalizeRoleInput, "role", "r", "", "Free-text role, e.g. \"Backend Developer\"")
	rootCmd.AddCommand(normalizeRoleCmd)
}
