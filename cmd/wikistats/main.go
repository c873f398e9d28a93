package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"wikistats/pkg/config"
	"wikistats/pkg/db"
	"wikistats/pkg/dump"
	"wikistats/pkg/logging"
	"wikistats/pkg/stats"
	"wikistats/pkg/store"
	"wikistats/pkg/version"
)

var (
	configPath = flag.String("config", "configs/wikistats.yaml", "Path to config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	// Pick up env overrides (WIKISTATS_LANGUAGE, WIKISTATS_DB) from .env if present
	_ = godotenv.Load()

	// Handle --init-config flag
	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated:", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: statistics build failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("wikistats started", "version", version.Version, "language", cfg.Language.Code)
	start := time.Now()

	// Open the database up front: a bad path must not throw away a
	// Wikipedia-scale aggregation at the very end.
	database, err := db.Init(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	builder := stats.NewBuilder(stats.Config{
		Language:          cfg.Language.Code,
		TemplateNamespace: cfg.Language.TemplateNamespace,
		TemplatePredicate: cfg.Language.TemplatePredicate,
		ResourcePrefix:    cfg.Language.ResourcePrefix,
		PropertyPrefix:    cfg.Language.PropertyPrefix,
		ProgressInterval:  cfg.ProgressInterval,
	}, slog.Default())

	// Redirects come first; every later pass consults the table.
	if err := runPass(cfg.Datasets.Redirects, builder.LoadRedirects); err != nil {
		return err
	}
	if err := runPass(cfg.Datasets.TemplateUsage, builder.CountTemplateUsage); err != nil {
		return err
	}
	if err := runPass(cfg.Datasets.PropertyDefinitions, builder.RegisterProperties); err != nil {
		return err
	}
	if err := runPass(cfg.Datasets.PropertyOccurrences, builder.CountPropertyOccurrences); err != nil {
		return err
	}

	// Some language snapshots register no usable occurrence from the test
	// dataset at all. Recover from the page properties dump in that case.
	fallback := builder.QualifyingCount() == 0
	if fallback {
		slog.Warn("no qualifying template after primary counting, running page properties fallback",
			"language", cfg.Language.Code)
		if err := runPass(cfg.Datasets.PageProperties, builder.CountPropertyOccurrencesFallback); err != nil {
			return err
		}
	}

	snap := builder.Build()

	runID, err := store.NewSnapshotStore(database).Save(ctx, snap)
	if err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}

	slog.Info("statistics build finished",
		"language", cfg.Language.Code,
		"run", runID,
		"tracked", builder.TrackedTemplates(),
		"qualifying", len(snap.Templates),
		"fallback", fallback,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func runPass(path string, pass func(r io.Reader) error) error {
	r, err := dump.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()
	return pass(r)
}
