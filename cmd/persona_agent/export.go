package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/persona-studio/internal/db"
	"github.com/jonathan/persona-studio/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export persona cards as PDF",
	Long: `Render persona cards and export each as a single-page A4 PDF (requires Chrome).

Personas are read from a JSON file holding a "personas" array (the output of generate, or a
stored submission) with --in, or loaded from the database by submission ID with --id.`,
	RunE: runExport,
}

var (
	exportIn        string
	exportID        string
	exportPersonaID string
	exportDir       string
)

func init() {
	exportCmd.Flags().StringVarP(&exportIn, "in", "i", "", "JSON file with a personas array, or - for stdin")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Submission ID to load from the database")
	exportCmd.Flags().StringVarP(&exportPersonaID, "persona", "p", "", "Export only the persona with this ID")
	exportCmd.Flags().StringVarP(&exportDir, "out-dir", "o", ".", "Directory for the PDF files")
	rootCmd.AddCommand(exportCmd)
}

// decodePersonas reads the personas array from generate output or a submission.
func decodePersonas(data []byte) ([]types.Persona, error) {
	var doc struct {
		Personas []types.Persona `json:"personas"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse personas JSON: %w", err)
	}
	return doc.Personas, nil
}

// selectPersonas returns all personas, or only the one with id when id is set.
func selectPersonas(personas []types.Persona, id string) ([]types.Persona, error) {
	if id == "" {
		if len(personas) == 0 {
			return nil, fmt.Errorf("no personas to export")
		}
		return personas, nil
	}
	for _, p := range personas {
		if p.ID == id {
			return []types.Persona{p}, nil
		}
	}
	return nil, fmt.Errorf("persona %q not found", id)
}

func loadSubmissionPersonas(ctx context.Context, databaseURL, id string) ([]types.Persona, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("--id requires DATABASE_URL or database_url in the config file")
	}
	subID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid submission ID: %w", err)
	}
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	sub, err := database.GetSubmission(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s not found", subID)
	}
	return sub.Personas, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	if (exportIn == "") == (exportID == "") {
		return fmt.Errorf("exactly one of --in or --id is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck
	ctx := cmd.Context()

	var personas []types.Persona
	if exportIn != "" {
		data, err := readInput(exportIn, cmd.InOrStdin())
		if err != nil {
			return err
		}
		personas, err = decodePersonas(data)
		if err != nil {
			return err
		}
	} else {
		personas, err = loadSubmissionPersonas(ctx, cfg.DatabaseURL, exportID)
		if err != nil {
			return err
		}
	}

	selected, err := selectPersonas(personas, exportPersonaID)
	if err != nil {
		return err
	}

	paths, err := exportPersonas(ctx, newExporter(cfg, logger), selected, exportDir)
	for _, p := range paths {
		_, _ = fmt.Fprintln(os.Stdout, p)
	}
	return err
}
