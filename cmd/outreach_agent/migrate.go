package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/contact-finder/internal/domains"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the confirmed-domain tables",
	Long:  "Applies the companies schema to DATABASE_URL. With --seed-known-domains the policy's company directory is recorded as confirmed domains.",
	RunE:  runMigrate,
}

var migrateSeed bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed-known-domains", false, "Confirm every domain in the policy directory")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	if rt.db == nil {
		return fmt.Errorf("DATABASE_URL is required for migrate")
	}
	if err := rt.db.Migrate(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, "Schema applied")

	if !migrateSeed {
		return nil
	}

	var seeded, conflicts int
	for _, name := range rt.policy.KnownDomainNames() {
		_, err := rt.db.ConfirmDomain(ctx, name, rt.policy.KnownDomains[name])
		var conflict *domains.ConflictError
		switch {
		case errors.As(err, &conflict):
			conflicts++
			_, _ = fmt.Fprintf(os.Stdout, "  conflict: %v\n", conflict)
		case err != nil:
			return err
		default:
			seeded++
		}
	}
	_, _ = fmt.Fprintf(os.Stdout, "Seeded %d domains (%d conflicts)\n", seeded, conflicts)
	return nil
}
