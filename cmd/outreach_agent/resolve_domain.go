package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/contact-finder/internal/domains"
)

var resolveDomainCmd = &cobra.Command{
	Use:   "resolve-domain",
	Short: "Suggest and check the mail domain for a company",
	RunE:  runResolveDomain,
}

var (
	resolveDomainCompany string
	resolveDomainCheckMX bool
)

func init() {
	resolveDomainCmd.Flags().StringVarP(&resolveDomainCompany, "company", "c", "", "Company name (required)")
	resolveDomainCmd.Flags().BoolVar(&resolveDomainCheckMX, "check-mx", false, "Also check that the domain has MX records")

	if err := resolveDomainCmd.MarkFlagRequired("company"); err != nil {
		panic(fmt.Sprintf("failed to mark company flag as required: %v", err))
	}

	rootCmd.AddCommand(resolveDomainCmd)
}

func runResolveDomain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	company := domains.CleanCompanyName(resolveDomainCompany)
	confirmed, isConfirmed, err := rt.registry().Lookup(ctx, company)
	if err != nil {
		rt.log.Warn().Err(err).Msg("confirmed domain lookup failed")
	}

	domain := confirmed
	if !isConfirmed {
		domain = rt.resolver(ctx).Resolve(resolveDomainCompany)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Domain: %s\n", domain)
	_, _ = fmt.Fprintf(os.Stdout, "Confirmed: %t\n", isConfirmed)
	if err := rt.validator().Check(domain); err != nil {
		_, _ = fmt.Fprintf(os.Stdout, "Valid: false (%v)\n", err)
		return nil
	}
	_, _ = fmt.Fprintln(os.Stdout, "Valid: true")

	if resolveDomainCheckMX {
		_, _ = fmt.Fprintf(os.Stdout, "MX: %t\n", rt.mailChecker().HasMXRecords(ctx, domain))
	}
	return nil
}
