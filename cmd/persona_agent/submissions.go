package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/persona-studio/internal/db"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "List or delete stored submissions",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent submissions",
	RunE:  runSubmissionsList,
}

var submissionsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a submission and its personas",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmissionsDelete,
}

var (
	submissionsLimit int
	submissionsJSON  bool
)

func init() {
	submissionsListCmd.Flags().IntVar(&submissionsLimit, "limit", 20, "Maximum number of submissions")
	submissionsListCmd.Flags().BoolVar(&submissionsJSON, "json", false, "Print JSON instead of a table")
	submissionsCmd.AddCommand(submissionsListCmd, submissionsDeleteCmd)
	rootCmd.AddCommand(submissionsCmd)
}

func connectDB(ctx context.Context) (*db.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or database_url in the config file is required")
	}
	return db.Connect(ctx, cfg.DatabaseURL)
}

func runSubmissionsList(cmd *cobra.Command, _ []string) error {
	database, err := connectDB(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	summaries, err := database.ListSubmissions(cmd.Context(), submissionsLimit)
	if err != nil {
		return err
	}
	if submissionsJSON {
		return writeJSON("", summaries)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCOMPANY\tSTATUS\tPERSONAS\tCREATED")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", s.ID, s.CompanyName, s.Status, s.PersonaCount, s.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func runSubmissionsDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid submission ID: %w", err)
	}
	database, err := connectDB(cmd.Context())
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.DeleteSubmission(cmd.Context(), id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Deleted submission %s\n", id)
	return nil
}
