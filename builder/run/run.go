package run

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Kush-Singh-26/folio/builder/config"
)

// NewLogger returns the text logger used across a build, at Debug level
// when verbose.
func NewLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// Run parses args, performs one build and prints the summary.
func Run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	b, err := NewBuilder(cfg, Options{Logger: NewLogger(cfg.Verbose)})
	if err != nil {
		return err
	}
	defer b.Close()

	m, err := b.Build(ctx)
	if err != nil {
		return err
	}
	m.Print()
	if cfg.Verbose {
		fmt.Println(m.Phases())
	}
	fmt.Println("✅ Build Complete.")
	return nil
}
