package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/persona-studio/internal/observability"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess FILE...",
	Short: "Show how attached files will be read",
	Long: `Run the upload preprocessor over local files and print the resulting records as JSON:
detected type, size, text content for text and markdown files, and page count for PDFs.
Files over 50 MB are dropped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPreprocess,
}

var preprocessOut string

func init() {
	preprocessCmd.Flags().StringVarP(&preprocessOut, "out", "o", "", "Write JSON to this file instead of stdout")
	rootCmd.AddCommand(preprocessCmd)
}

func runPreprocess(_ *cobra.Command, args []string) error {
	files, err := loadUploads(args, observability.MustLogger(verbose))
	if err != nil {
		return err
	}
	return writeJSON(preprocessOut, files)
}
