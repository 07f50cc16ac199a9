package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/persona-studio/internal/observability"
	"github.com/jonathan/persona-studio/internal/parsing"
	"github.com/jonathan/persona-studio/internal/schemas"
	"github.com/jonathan/persona-studio/internal/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Normalize a raw model response into persona JSON",
	Long: `Normalize a raw text-model response (optionally wrapped in a markdown code fence) into
persona scaffolds, filling defaults for missing or mistyped fields, and validate the result
against the persona scaffold schema. No API key is needed.`,
	RunE: runNormalize,
}

var (
	normalizeIn     string
	normalizeOut    string
	normalizeStrict bool
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeIn, "in", "i", "", "Path to the raw response file, or - for stdin")
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "Write normalized JSON to this file instead of stdout")
	normalizeCmd.Flags().BoolVar(&normalizeStrict, "strict", false, "Fail when any field had to be defaulted")
	_ = normalizeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(normalizeCmd)
}

// normalizeOutput is the JSON written by the normalize command.
type normalizeOutput struct {
	Personas []types.PersonaScaffold `json:"personas"`
	Warnings []parsing.FieldWarning  `json:"warnings"`
}

// normalizeRaw normalizes raw and validates the scaffolds against the schema.
func normalizeRaw(raw []byte) (normalizeOutput, error) {
	scaffolds, warnings, err := parsing.NormalizePersonas(string(raw))
	if err != nil {
		return normalizeOutput{}, err
	}
	if err := schemas.ValidatePersonaScaffolds(scaffolds); err != nil {
		return normalizeOutput{}, fmt.Errorf("normalized personas failed schema validation: %w", err)
	}
	if warnings == nil {
		warnings = []parsing.FieldWarning{}
	}
	return normalizeOutput{Personas: scaffolds, Warnings: warnings}, nil
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(normalizeIn, cmd.InOrStdin())
	if err != nil {
		return err
	}

	out, err := normalizeRaw(raw)
	if err != nil {
		return err
	}

	messages := make([]string, len(out.Warnings))
	for i, w := range out.Warnings {
		messages[i] = w.String()
	}
	observability.NewPrinter(os.Stderr).PrintWarnings(messages)

	if err := writeJSON(normalizeOut, out); err != nil {
		return err
	}
	if normalizeStrict && len(out.Warnings) > 0 {
		return fmt.Errorf("%d field(s) were defaulted", len(out.Warnings))
	}
	return nil
}
