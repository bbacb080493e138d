// Package httptransport is the thin HTTP layer over the governance services.
// Handlers decode, delegate, and encode; policy decisions stay in the
// services.
package httptransport

import (
	"context"
	"log/slog"
	"sync"

	"datagov/internal/access"
	"datagov/internal/catalog"
	"datagov/internal/lineage"
	"datagov/internal/pipeline"
	"datagov/internal/platform/redis"
	"datagov/internal/quality"
)

// PipelineService runs governed pipeline passes.
type PipelineService interface {
	Run(ctx context.Context) (*pipeline.Report, error)
	Validator() *quality.Validator
}

// CatalogService reads registered data assets.
type CatalogService interface {
	Get(ctx context.Context, name string) (*catalog.Asset, error)
	List(ctx context.Context) ([]catalog.Asset, error)
}

// LineageService reads lineage records.
type LineageService interface {
	List(ctx context.Context) ([]lineage.Record, error)
	ListByDataset(ctx context.Context, dataset string) ([]lineage.Record, error)
}

// Handler holds the services the HTTP surface exposes.
type Handler struct {
	logger     *slog.Logger
	pipeline   PipelineService
	catalog    CatalogService
	lineage    LineageService
	controller *access.Controller
	cache      *redis.Client

	mu         sync.RWMutex
	lastReport *pipeline.Report
}

// Option configures the Handler.
type Option func(*Handler)

// WithReportCache enables the cross-instance report cache. A nil client
// leaves caching to the in-process fallback.
func WithReportCache(cache *redis.Client) Option {
	return func(h *Handler) {
		h.cache = cache
	}
}

// NewHandler creates the HTTP handler set.
func NewHandler(
	pipelineSvc PipelineService,
	catalogSvc CatalogService,
	lineageSvc LineageService,
	controller *access.Controller,
	logger *slog.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		logger:     logger,
		pipeline:   pipelineSvc,
		catalog:    catalogSvc,
		lineage:    lineageSvc,
		controller: controller,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
