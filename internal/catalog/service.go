package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	dErrors "datagov/pkg/domain-errors"
	"datagov/pkg/platform/sentinel"
)

// Service fronts the catalog store and translates infrastructure facts into
// domain errors.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New creates a catalog service.
func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register adds an asset to the catalog. Registering the same name twice is
// a conflict.
func (s *Service) Register(ctx context.Context, asset Asset) error {
	if asset.Name == "" {
		return dErrors.New(dErrors.CodeConfig, "catalog asset has no name")
	}
	if asset.Source == "" {
		return dErrors.Newf(dErrors.CodeConfig, "catalog asset %q has no source path", asset.Name)
	}
	if err := s.store.Register(ctx, asset); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Newf(dErrors.CodeConflict, "catalog asset %q already registered", asset.Name)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "register catalog asset")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "catalog asset registered",
			"asset", asset.Name,
			"owner", asset.Owner,
			"sensitivity", asset.Sensitivity,
		)
	}
	return nil
}

// Get returns the asset by name.
func (s *Service) Get(ctx context.Context, name string) (*Asset, error) {
	asset, err := s.store.Get(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "catalog asset %q not found", name)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get catalog asset")
	}
	return asset, nil
}

// List returns all assets in registration order.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	assets, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list catalog assets")
	}
	return assets, nil
}
