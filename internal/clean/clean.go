package clean

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/config"
)

// Dirs removes each directory that exists and returns how many were
// removed. Paths that resolve to the filesystem root or the working
// directory are refused.
func Dirs(fs afero.Fs, dirs ...string) (int, error) {
	removed := 0
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		clean := filepath.Clean(dir)
		if clean == "." || clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator) {
			return removed, fmt.Errorf("refusing to remove %q", dir)
		}
		exists, err := afero.DirExists(fs, clean)
		if err != nil {
			return removed, err
		}
		if !exists {
			continue
		}
		fmt.Printf("🧹 Removing '%s'...\n", clean)
		if err := fs.RemoveAll(clean); err != nil {
			return removed, fmt.Errorf("failed to remove '%s': %w", clean, err)
		}
		removed++
	}
	return removed, nil
}

// Run removes the output directory, and the cache directory with -cache.
func Run(args []string) error {
	start := time.Now()

	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFlag := fs.String("config", config.DefaultConfigFile, "Path to folio.yaml")
	cacheFlag := fs.Bool("cache", false, "Also remove the math and image cache")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load([]string{"-config", *configFlag})
	if err != nil {
		return err
	}

	dirs := []string{cfg.OutputDir}
	if *cacheFlag {
		dirs = append(dirs, cfg.CacheDir)
	}
	n, err := Dirs(afero.NewOsFs(), dirs...)
	if err != nil {
		return err
	}
	fmt.Printf("🧹 Cleaned %d director(ies) in %v.\n", n, time.Since(start).Round(time.Millisecond))
	return nil
}
