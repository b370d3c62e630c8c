package services

import (
	"context"
	"log/slog"

	"github.com/Kush-Singh-26/folio/builder/models"
	"github.com/Kush-Singh-26/folio/builder/renderer"
	"github.com/Kush-Singh-26/folio/builder/utils"
)

type renderServiceImpl struct {
	rnd    *renderer.Renderer
	logger *slog.Logger
}

func NewRenderService(rnd *renderer.Renderer, logger *slog.Logger) RenderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &renderServiceImpl{
		rnd:    rnd,
		logger: logger,
	}
}

func (s *renderServiceImpl) RenderPage(path, name string, data models.PageData) error {
	return s.rnd.RenderPage(path, name, data)
}

func (s *renderServiceImpl) RegisterFile(path string) {
	s.rnd.RegisterFile(path)
}

func (s *renderServiceImpl) SetAssets(assets map[string]string) {
	s.rnd.SetAssets(assets)
}

func (s *renderServiceImpl) GetAssets() map[string]string {
	return s.rnd.GetAssets()
}

func (s *renderServiceImpl) Written() int64 {
	return s.rnd.Written()
}

// RenderRoutes writes every route under outputDir on a worker pool. The
// first failing page aborts the rest.
func RenderRoutes(ctx context.Context, rs RenderService, outputDir string, routes []Route, workers int) error {
	pool := utils.NewWorkerPool(ctx, workers, func(_ context.Context, r Route) error {
		return rs.RenderPage(utils.OutputPath(outputDir, r.Path), r.Template, r.Data)
	})
	pool.Start()
	for _, r := range routes {
		pool.Submit(r)
	}
	return pool.Stop()
}
