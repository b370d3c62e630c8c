package services

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/builder/parser"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// ChromaCSSURL is where the syntax highlighting stylesheet is published.
const ChromaCSSURL = "/static/css/chroma.css"

type assetServiceImpl struct {
	sourceFs afero.Fs
	destFs   afero.Fs
	cfg      *config.Config
	renderer RenderService
	logger   *slog.Logger
}

func NewAssetService(sourceFs, destFs afero.Fs, cfg *config.Config, renderer RenderService, logger *slog.Logger) AssetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &assetServiceImpl{
		sourceFs: sourceFs,
		destFs:   destFs,
		cfg:      cfg,
		renderer: renderer,
		logger:   logger,
	}
}

// Build copies static files, bundles css/js and writes chroma.css. Asset
// problems are logged and do not fail the build.
func (s *assetServiceImpl) Build(ctx context.Context) error {
	destStaticDir := filepath.Join(s.cfg.OutputDir, "static")
	var assets map[string]string

	var g errgroup.Group

	// 1. Static copy, excluding the css/js handled by esbuild
	g.Go(func() error {
		n, err := utils.CopyStatic(ctx, s.sourceFs, s.destFs, s.cfg.StaticDir, destStaticDir, utils.CopyOptions{
			CompressImages: s.cfg.CompressImages,
			SkipExts:       []string{".css", ".js"},
			Workers:        s.cfg.ImageWorkers,
			CacheDir:       filepath.Join(s.cfg.CacheDir, "images"),
			Logger:         s.logger,
			OnWrite:        s.renderer.RegisterFile,
		})
		if err != nil {
			s.logger.Warn("Failed to copy static assets", "error", err)
			return nil
		}
		s.logger.Debug("Copied static files", "count", n)
		return nil
	})

	// 2. Esbuild bundling (CSS/JS)
	g.Go(func() error {
		built, err := utils.BuildAssets(s.sourceFs, s.destFs, s.cfg.StaticDir, destStaticDir, "/static", s.cfg.Minify, s.renderer.RegisterFile)
		if err != nil {
			s.logger.Error("Failed to build assets", "error", err)
			return nil
		}
		assets = built
		return nil
	})

	// 3. Highlighting stylesheet
	g.Go(func() error {
		if err := s.writeChromaCSS(filepath.Join(destStaticDir, "css", "chroma.css")); err != nil {
			s.logger.Warn("Failed to write chroma.css", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if assets == nil {
		assets = make(map[string]string)
	}
	assets[ChromaCSSURL] = ChromaCSSURL
	s.renderer.SetAssets(assets)
	return ctx.Err()
}

func (s *assetServiceImpl) writeChromaCSS(path string) error {
	buf := utils.SharedBufferPool.Get()
	defer utils.SharedBufferPool.Put(buf)

	formatter := html.New(html.WithClasses(true))
	if err := formatter.WriteCSS(buf, styles.Get(parser.HighlightStyle)); err != nil {
		return err
	}
	if err := utils.WriteFileVFS(s.destFs, path, buf.Bytes()); err != nil {
		return err
	}
	s.renderer.RegisterFile(path)
	return nil
}
