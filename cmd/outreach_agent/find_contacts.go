package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jonathan/contact-finder/internal/discovery"
	"github.com/jonathan/contact-finder/internal/observability"
	"github.com/jonathan/contact-finder/internal/schemas"
	"github.com/jonathan/contact-finder/internal/types"
)

var findContactsCmd = &cobra.Command{
	Use:   "find-contacts",
	Short: "Suggest outreach addresses for a company",
	Long:  "Resolves and validates the company's mail domain, then prints a ranked list of departmental inboxes and low-confidence personal patterns as a JSON envelope.",
	RunE:  runFindContacts,
}

var (
	findContactsCompany     string
	findContactsDomain      string
	findContactsRole        string
	findContactsLocation    string
	findContactsMaxResults  int
	findContactsNoCache     bool
	findContactsOutput      string
	findContactsValidate    bool
	findContactsMetricsFile string
	findContactsFormat      string
)

func init() {
	findContactsCmd.Flags().StringVarP(&findContactsCompany, "company", "c", "", "Company name (required)")
	findContactsCmd.Flags().StringVarP(&findContactsDomain, "domain", "d", "", "Company mail domain (resolved from the name if omitted)")
	findContactsCmd.Flags().StringVarP(&findContactsRole, "role", "r", "", "Free-text role or purpose, e.g. \"Senior Recruiter\"")
	findContactsCmd.Flags().StringVar(&findContactsLocation, "location", "", "Location hint passed to name search")
	findContactsCmd.Flags().IntVarP(&findContactsMaxResults, "max-results", "n", 0, "Maximum contacts to return (default from config)")
	findContactsCmd.Flags().BoolVar(&findContactsNoCache, "no-cache", false, "Bypass the response cache")
	findContactsCmd.Flags().StringVarP(&findContactsOutput, "out", "o", "", "Write the envelope to this file instead of stdout")
	findContactsCmd.Flags().BoolVar(&findContactsValidate, "validate", false, "Validate the envelope against the JSON schema before writing")
	findContactsCmd.Flags().StringVar(&findContactsMetricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	findContactsCmd.Flags().StringVar(&findContactsFormat, "format", formatJSON, "Output format for stdout: json or text")

	if err := findContactsCmd.MarkFlagRequired("company"); err != nil {
		panic(fmt.Sprintf("failed to mark company flag as required: %v", err))
	}

	rootCmd.AddCommand(findContactsCmd)
}

func runFindContacts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := checkFormat(findContactsFormat); err != nil {
		return err
	}

	rt, err := newRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()

	svc, err := rt.service(ctx, !findContactsNoCache)
	if err != nil {
		return err
	}

	result := svc.FindCompanyContacts(ctx, discovery.Request{
		Company:    findContactsCompany,
		Domain:     findContactsDomain,
		Role:       findContactsRole,
		Location:   findContactsLocation,
		MaxResults: findContactsMaxResults,
		NoCache:    findContactsNoCache,
	})

	if findContactsFormat == formatText && findContactsOutput == "" {
		observability.NewPrinter(os.Stdout).PrintContactResult(result)
	} else if err := writeEnvelope(result, findContactsOutput, findContactsValidate); err != nil {
		return err
	}

	if findContactsMetricsFile != "" {
		if err := prometheus.WriteToTextfile(findContactsMetricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("failed to write metrics file %s: %w", findContactsMetricsFile, err)
		}
	}

	if !result.Success {
		return fmt.Errorf("%s: %s", result.ErrorKind, result.Message)
	}
	return nil
}

// writeEnvelope prints the result as indented JSON to path, or stdout when path is empty.
func writeEnvelope(result *types.ContactResult, path string, validate bool) error {
	if validate {
		if err := schemas.ValidateContactResult(result); err != nil {
			return fmt.Errorf("envelope failed schema validation: %w", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
