package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/contact-finder/internal/schemas"
)

var validateEnvelopeCmd = &cobra.Command{
	Use:   "validate-envelope",
	Short: "Check a saved find-contacts envelope against the JSON schema",
	RunE:  runValidateEnvelope,
}

var validateEnvelopeFile string

func init() {
	validateEnvelopeCmd.Flags().StringVarP(&validateEnvelopeFile, "file", "f", "", "Path to the envelope JSON (required)")

	if err := validateEnvelopeCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(validateEnvelopeCmd)
}

func runValidateEnvelope(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(validateEnvelopeFile)
	if err != nil {
		return fmt.Errorf("failed to read envelope %s: %w", validateEnvelopeFile, err)
	}
	if err := schemas.ValidateContactResultJSON(data); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "%s: valid\n", validateEnvelopeFile)
	return nil
}
