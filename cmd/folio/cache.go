package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/cache"
	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/internal/clean"
)

// handleCacheCommand processes cache-related subcommands
func handleCacheCommand(args []string) error {
	if len(args) < 1 {
		printCacheUsage()
		return errors.New("missing cache subcommand")
	}

	cfg, err := config.Load(args[1:])
	if err != nil {
		return err
	}

	switch args[0] {
	case "stats":
		return cacheStats(cfg)
	case "clear":
		_, err := clean.Dirs(afero.NewOsFs(), cfg.CacheDir)
		return err
	default:
		printCacheUsage()
		return fmt.Errorf("unknown cache subcommand: %s", args[0])
	}
}

func printCacheUsage() {
	fmt.Println("Usage: folio cache <subcommand> [flags]")
	fmt.Println("\nSubcommands:")
	fmt.Println("  stats          Show cache statistics")
	fmt.Println("  clear          Delete all cache data")
}

func cacheStats(cfg *config.Config) error {
	// Cache commands run in production mode for durability
	cm, err := cache.Open(cfg.CacheDir, false)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() { _ = cm.Close() }()

	stats, err := cm.Stats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("📊 Cache Statistics")
	fmt.Println("════════════════════════════════════════")
	fmt.Printf("Location:        %s\n", cfg.CacheDir)
	fmt.Printf("Schema Version:  %d\n", cache.SchemaVersion)
	fmt.Printf("Math Entries:    %d\n", stats.Entries)
	fmt.Printf("Build Count:     %d\n", stats.Builds)
	return nil
}
