// Package main provides the persona_agent CLI and HTTP server entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	apiKeyFlag string
	tierFlag   string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "persona_agent",
	Short: "Marketing persona generator",
	Long: `persona_agent turns company details and marketing goals into AI-generated marketing personas,
illustrates them, and exports persona cards as PDF.

Configuration is read from an optional JSON or YAML file (--config), then the environment
(GEMINI_API_KEY, DATABASE_URL, REDIS_URL, CHROME_PATH, PORT), then flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&tierFlag, "tier", "", "Text model tier: lite, standard or advanced")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
