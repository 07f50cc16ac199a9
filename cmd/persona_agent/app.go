package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jonathan/persona-studio/internal/config"
	"github.com/jonathan/persona-studio/internal/db"
	"github.com/jonathan/persona-studio/internal/export"
	"github.com/jonathan/persona-studio/internal/imagecache"
	"github.com/jonathan/persona-studio/internal/llm"
	"github.com/jonathan/persona-studio/internal/observability"
	"github.com/jonathan/persona-studio/internal/pipeline"
)

// loadConfig merges the config file, environment and global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	if tierFlag != "" {
		if _, err := llm.ParseModelTier(tierFlag); err != nil {
			return config.Config{}, err
		}
		cfg.TextTier = tierFlag
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *zap.Logger {
	return observability.MustLogger(cfg.Verbose)
}

// app holds the long-lived clients a command needs. close releases them.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	text      llm.Client
	images    llm.ImageClient
	redis     *redis.Client
	database  *db.DB
	store     pipeline.Store
	generator *pipeline.Generator
}

type appOptions struct {
	noImages bool
	useDB    bool
}

func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger, opts appOptions) (*app, error) {
	if err := llm.CheckAPIKey(cfg.APIKey); err != nil {
		return nil, err
	}

	tier, err := llm.ParseModelTier(cfg.TextTier)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}
	llmCfg := llm.DefaultGeminiConfig().WithImageModel(cfg.ImageModel)
	if cfg.TextModel != "" {
		llmCfg = llmCfg.WithModel(tier, cfg.TextModel)
	}

	text, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create text client: %w", err)
	}
	a.text = text

	if !opts.noImages {
		imagen, err := llm.NewImagenClient(ctx, llmCfg, cfg.APIKey)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create image client: %w", err)
		}
		a.images = imagen

		if cfg.RedisURL != "" {
			rdb, err := imagecache.Connect(ctx, cfg.RedisURL)
			if err != nil {
				logger.Warn("image cache disabled", zap.Error(err))
			} else {
				a.redis = rdb
				a.images = imagecache.New(imagen, rdb, imagecache.WithLogger(logger))
			}
		}
	}

	var store pipeline.Store
	if opts.useDB && cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.close()
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			a.close()
			return nil, err
		}
		a.database = database
		store = database
	} else if opts.useDB {
		logger.Info("no database configured, keeping submissions in memory")
		store = pipeline.NewMemoryStore(cfg.MemoryStoreSize)
	}

	a.store = store
	a.generator, err = pipeline.NewGenerator(a.text, a.images, pipeline.Options{
		APIKey:              cfg.APIKey,
		Tier:                tier,
		PlaceholderImageURL: cfg.PlaceholderImageURL,
		Store:               store,
		Logger:              logger,
	})
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.text != nil {
		_ = a.text.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
}

func newExporter(cfg config.Config, logger *zap.Logger) *export.Exporter {
	return export.NewChromeExporter(&export.Chrome{ExecPath: cfg.ChromePath}, cfg.ExportScale, logger)
}

// writeJSON writes v as indented JSON to path, or to stdout when path is empty or "-".
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
