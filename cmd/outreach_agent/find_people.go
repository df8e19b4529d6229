package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/contact-finder/internal/discovery"
	"github.com/jonathan/contact-finder/internal/domains"
	"github.com/jonathan/contact-finder/internal/observability"
	"github.com/jonathan/contact-finder/internal/people"
	"github.com/jonathan/contact-finder/internal/roles"
)

var findPeopleCmd = &cobra.Command{
	Use:   "find-people",
	Short: "List people published on a company's own pages",
	Long:  "Runs the configured name sources against the company's domain and prints the person records that pass the name and domain checks.",
	RunE:  runFindPeople,
}

var (
	findPeopleCompany  string
	findPeopleDomain   string
	findPeopleRole     string
	findPeopleLocation string
	findPeopleFormat   string
)

func init() {
	findPeopleCmd.Flags().StringVarP(&findPeopleCompany, "company", "c", "", "Company name (required)")
	findPeopleCmd.Flags().StringVarP(&findPeopleDomain, "domain", "d", "", "Company domain (resolved from the name if omitted)")
	findPeopleCmd.Flags().StringVarP(&findPeopleRole, "role", "r", "", "Free-text role used to focus search queries")
	findPeopleCmd.Flags().StringVar(&findPeopleLocation, "location", "", "Location hint passed to name search")
	findPeopleCmd.Flags().StringVar(&findPeopleFormat, "format", formatJSON, "Output format: json or text")

	if err := findPeopleCmd.MarkFlagRequired("company"); err != nil {
		panic(fmt.Sprintf("failed to mark company flag as required: %v", err))
	}

	rootCmd.AddCommand(findPeopleCmd)
}

func runFindPeople(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := checkFormat(findPeopleFormat); err != nil {
		return err
	}

	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	domain := domains.NormalizeDomain(findPeopleDomain)
	if domain == "" {
		domain = rt.resolver(ctx).Resolve(findPeopleCompany)
	}
	if err := rt.validator().Check(domain); err != nil {
		return err
	}
	if rt.policy.IsLargeCompany(domains.CleanCompanyName(findPeopleCompany), domain) {
		return fmt.Errorf("name sourcing is disabled for %s by policy", domain)
	}

	finder, err := rt.finder(ctx)
	if err != nil {
		return err
	}

	sctx, cancel := context.WithTimeout(ctx, rt.cfg.SourcingTimeout.Std())
	defer cancel()

	records, err := finder.FindPublicPeople(sctx, people.Query{
		Company:  findPeopleCompany,
		Domain:   domain,
		Intent:   roles.NormalizeRole(findPeopleRole),
		Location: findPeopleLocation,
	})
	if err != nil {
		return fmt.Errorf("name sourcing failed: %w", err)
	}
	records = people.Sanitize(records, domain, discovery.DefaultMaxPeople)

	if findPeopleFormat == formatText {
		observability.NewPrinter(os.Stdout).PrintPeople(domain, records)
		return nil
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal people to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, string(data))
	return nil
}
