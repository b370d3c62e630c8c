package run

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/Kush-Singh-26/folio/builder/generators"
	"github.com/Kush-Singh-26/folio/builder/metrics"
	"github.com/Kush-Singh-26/folio/builder/renderer"
	"github.com/Kush-Singh-26/folio/builder/services"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

// Build executes a single build pass. Templates are parsed again on every
// pass so overrides edited during `serve` take effect.
func (b *Builder) Build(ctx context.Context) (*metrics.BuildMetrics, error) {
	cfg := b.cfg
	m := metrics.NewBuildMetrics()
	version := time.Now().Unix()
	fmt.Printf("🔨 Building site... (Version: %d) | Parallel Workers: %d\n", version, cfg.Workers)

	if b.sync {
		// fresh output so removed pages do not linger between serve rebuilds
		b.DestFs = afero.NewMemMapFs()
	}
	destFs := b.DestFs

	var hits, misses int64
	if b.cache != nil {
		if st, err := b.cache.Stats(); err == nil {
			hits, misses = st.Hits, st.Misses
		}
	}

	rnd, err := renderer.New(renderer.Options{
		DestFs:      destFs,
		SourceFs:    b.SourceFs,
		TemplateDir: cfg.TemplateDir,
		Compress:    cfg.Minify,
		WebP:        cfg.CompressImages,
		Logger:      b.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	rs := services.NewRenderService(rnd, b.logger)

	// 1. Static assets
	stop := m.Track(&m.AssetTime)
	err = services.NewAssetService(b.SourceFs, destFs, cfg, rs, b.logger).Build(ctx)
	stop()
	if err != nil {
		return nil, err
	}

	// 2. Content
	stop = m.Track(&m.LoadTime)
	ps := services.NewPageService(b.store, services.PageOptions{
		BaseURL:      cfg.BaseURL,
		IsDev:        cfg.IsDev,
		ClientMath:   b.native == nil,
		BuildVersion: version,
	}, b.logger)
	res, err := ps.Collect(ctx)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	// 3. Pages
	stop = m.Track(&m.RenderTime)
	err = services.RenderRoutes(ctx, rs, cfg.OutputDir, res.Routes, cfg.Workers)
	stop()
	if err != nil {
		return nil, err
	}

	// 4. Feed & sitemap
	if err := b.generateMetadata(destFs, rs, res); err != nil {
		return nil, err
	}

	// 5. Sync
	if b.sync {
		stop = m.Track(&m.SyncTime)
		n, err := utils.SyncVFS(ctx, destFs, cfg.OutputDir, cfg.Workers)
		stop()
		if err != nil {
			return nil, fmt.Errorf("failed to sync VFS to disk: %w", err)
		}
		m.FilesSynced = n

		pruned, err := utils.PruneVFS(destFs, cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to remove stale output: %w", err)
		}
		if pruned > 0 {
			b.logger.Info("Removed stale output", "files", pruned)
		}
	}

	if b.cache != nil {
		if err := b.cache.IncrementBuildCount(); err != nil {
			b.logger.Warn("Failed to update build count", "error", err)
		}
		if st, err := b.cache.Stats(); err == nil {
			m.RecordCache(st.Hits-hits, st.Misses-misses)
		}
	}

	m.PagesRendered = len(res.Routes)
	m.PostsProcessed = len(res.Posts)
	m.FilesWritten = rs.Written()
	m.RecordEnd()
	return m, nil
}

func (b *Builder) generateMetadata(destFs afero.Fs, rs services.RenderService, res *services.PageResult) error {
	cfg := b.cfg
	site := res.Site
	if cfg.BaseURL != "" {
		site.BaseURL = cfg.BaseURL
	}

	if err := generators.GenerateRSS(destFs, cfg.OutputDir, site, res.Posts, cfg.Minify); err != nil {
		return err
	}
	rs.RegisterFile(filepath.Join(cfg.OutputDir, filepath.FromSlash(generators.FeedPath)))

	pages := make([]generators.SitemapPage, 0, len(res.Routes))
	for _, r := range res.Routes {
		if r.Template == renderer.TemplateNotFound {
			continue
		}
		page := generators.SitemapPage{Path: r.Path}
		if r.Data.Post != nil {
			page.LastMod = r.Data.Post.PublishedAt
		}
		pages = append(pages, page)
	}
	if err := generators.GenerateSitemap(destFs, cfg.OutputDir, generators.SiteRoot(site), pages, cfg.Minify); err != nil {
		return err
	}
	rs.RegisterFile(filepath.Join(cfg.OutputDir, "sitemap.xml"))
	return nil
}
