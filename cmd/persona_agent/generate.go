package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/persona-studio/internal/export"
	"github.com/jonathan/persona-studio/internal/ingestion"
	"github.com/jonathan/persona-studio/internal/observability"
	"github.com/jonathan/persona-studio/internal/pipeline"
	"github.com/jonathan/persona-studio/internal/rendering"
	"github.com/jonathan/persona-studio/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate marketing personas for a company",
	Long: `Generate one or two marketing personas from company details, illustrate each with three
storyboard frames and a social media ad, and print the result as JSON.

Attach up to 5 files with --file; text and markdown files are included in the prompt.
With --pdf-dir every persona card is also exported as a PDF (requires Chrome).`,
	RunE: runGenerate,
}

var (
	genCompanyName string
	genDescription string
	genURL         string
	genGoals       string
	genFiles       []string
	genOut         string
	genPDFDir      string
	genNoImages    bool
	genPersist     bool
)

func init() {
	generateCmd.Flags().StringVarP(&genCompanyName, "company-name", "n", "", "Company name (required)")
	generateCmd.Flags().StringVarP(&genDescription, "description", "d", "", "Company description (required)")
	generateCmd.Flags().StringVar(&genURL, "url", "", "Company website URL")
	generateCmd.Flags().StringVarP(&genGoals, "goals", "g", "", "Marketing goals (required)")
	generateCmd.Flags().StringArrayVarP(&genFiles, "file", "f", nil, "Attach a file (repeatable, at most 5)")
	generateCmd.Flags().StringVarP(&genOut, "out", "o", "", "Write result JSON to this file instead of stdout")
	generateCmd.Flags().StringVar(&genPDFDir, "pdf-dir", "", "Export every persona card as PDF into this directory")
	generateCmd.Flags().BoolVar(&genNoImages, "no-images", false, "Skip image generation and use placeholders")
	generateCmd.Flags().BoolVar(&genPersist, "persist", false, "Store the submission in the configured database")

	_ = generateCmd.MarkFlagRequired("company-name")
	_ = generateCmd.MarkFlagRequired("description")
	_ = generateCmd.MarkFlagRequired("goals")

	rootCmd.AddCommand(generateCmd)
}

// loadUploads validates the file count and preprocesses every path.
func loadUploads(paths []string, logger *zap.Logger) ([]types.ProcessedFile, error) {
	if err := ingestion.ValidateUploadCount(len(paths)); err != nil {
		return nil, err
	}
	uploads := make([]ingestion.Upload, 0, len(paths))
	for _, p := range paths {
		u, err := ingestion.FromPath(p)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return ingestion.ProcessUploads(uploads, logger), nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck
	printer := observability.NewPrinter(os.Stderr)

	files, err := loadUploads(genFiles, logger)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.PrintProcessedFiles(files)
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, logger, appOptions{noImages: genNoImages, useDB: genPersist})
	if err != nil {
		return err
	}
	defer a.close()

	req := pipeline.Request{
		Input: types.CompanyInput{
			Name:           genCompanyName,
			Description:    genDescription,
			URL:            genURL,
			MarketingGoals: genGoals,
			Files:          files,
		},
	}
	if cfg.Verbose {
		req.OnProgress = func(e pipeline.ProgressEvent) {
			_, _ = fmt.Fprintf(os.Stderr, "[%s] %s\n", e.Step, e.Message)
		}
	}

	result, err := a.generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		printer.PrintPersonas(result.Personas)
		warnings := make([]string, len(result.Warnings))
		for i, w := range result.Warnings {
			warnings[i] = w.String()
		}
		printer.PrintWarnings(warnings)
	}
	printer.PrintAdvisory(result.Advisory)

	if err := writeJSON(genOut, result); err != nil {
		return err
	}

	if genPDFDir != "" && len(result.Personas) > 0 {
		paths, err := exportPersonas(ctx, newExporter(cfg, logger), result.Personas, genPDFDir)
		for _, p := range paths {
			_, _ = fmt.Fprintf(os.Stderr, "Exported %s\n", p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// exportPersonas writes one PDF per persona into dir and returns the written paths.
// It stops at the first failure.
func exportPersonas(ctx context.Context, exporter *export.Exporter, personas []types.Persona, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := make([]string, 0, len(personas))
	for _, p := range personas {
		doc, err := rendering.RenderCard(p)
		if err != nil {
			return paths, err
		}
		path, err := exporter.ExportToFile(ctx, doc, rendering.CardID(p.ID), p.Name, dir)
		if err != nil {
			return paths, fmt.Errorf("export %s: %w", p.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
