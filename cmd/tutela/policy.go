package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cognita-hq/tutela/pkg/policy"
)

var policyFlags struct {
	format string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate policy files",
}

var policyValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate policy files",
	Long: `Validate policy YAML files.

Validation checks:
  - YAML syntax
  - Unknown option keys (rejected, never silently ignored)
  - Threshold ranges (no negative values, assistance level in [0, 1])

Examples:
  # Validate a single policy
  tutela policy validate policy.yaml

  # JSON output for CI
  tutela policy validate --format json policy.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: validatePolicies,
}

var policyShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print the effective policy",
	Long: `Print the effective policy as JSON. Without a file argument the
built-in default policy is printed; with one, the file is loaded on top of
the defaults first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: showPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyValidateCmd)
	policyCmd.AddCommand(policyShowCmd)

	policyValidateCmd.Flags().StringVar(&policyFlags.format, "format", "text", "output format: text, json")
}

// policyResult is the validation outcome for one file.
type policyResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func validatePolicies(cmd *cobra.Command, args []string) error {
	results := make([]policyResult, 0, len(args))
	failed := false

	for _, file := range args {
		result := policyResult{File: file, Valid: true}

		if _, err := policy.LoadFile(file); err != nil {
			result.Valid = false
			failed = true

			var verr policy.ValidationError
			if errors.As(err, &verr) {
				for _, fieldErr := range verr.Errors {
					result.Errors = append(result.Errors, fieldErr.Error())
				}
			} else {
				result.Errors = append(result.Errors, err.Error())
			}
		}

		results = append(results, result)
	}

	if policyFlags.format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Valid {
				fmt.Printf("✓ %s\n", result.File)
				continue
			}
			fmt.Printf("✗ %s\n", result.File)
			for _, msg := range result.Errors {
				fmt.Printf("    %s\n", msg)
			}
		}
	}

	if failed {
		return fmt.Errorf("policy validation failed")
	}
	return nil
}

func showPolicy(cmd *cobra.Command, args []string) error {
	p := policy.Default()

	if len(args) == 1 {
		loaded, err := policy.LoadFile(args[0])
		if err != nil {
			return err
		}
		p = loaded
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(p)
}
