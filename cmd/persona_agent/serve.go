package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/persona-studio/internal/server"
	"github.com/jonathan/persona-studio/internal/server/ratelimit"
)

var (
	servePort     int
	serveNoExport bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start an HTTP server with the persona form, the generation API (JSON and SSE),
submission lookup and PDF export of persona cards.

Submissions are stored in PostgreSQL when DATABASE_URL is set, otherwise in memory.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config/PORT, then 8080)")
	serveCmd.Flags().BoolVar(&serveNoExport, "no-export", false, "Disable PDF export (no Chrome required)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	a, err := newApp(cmd.Context(), cfg, logger, appOptions{useDB: true})
	if err != nil {
		return err
	}
	defer a.close()

	srvCfg := server.Config{
		Port:      cfg.Port,
		Generator: a.generator,
		Store:     a.store,
		RateLimit: ratelimit.LoadConfig(),
		Logger:    logger,
	}
	if !serveNoExport {
		srvCfg.Exporter = newExporter(cfg, logger)
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	logger.Info("serving personas",
		zap.Int("port", cfg.Port),
		zap.Bool("database", a.database != nil),
		zap.Bool("image_cache", a.redis != nil),
		zap.Bool("export", srvCfg.Exporter != nil),
	)
	return srv.Start(cmd.Context())
}
