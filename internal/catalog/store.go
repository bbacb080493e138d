// Package catalog stores metadata for governed datasets and serves lookups
// for the pipeline and the HTTP API.
package catalog

import "context"

// Store persists catalog assets. Implementations return sentinel errors for
// infrastructure facts; the Service translates them into domain errors.
type Store interface {
	Register(ctx context.Context, asset Asset) error
	Get(ctx context.Context, name string) (*Asset, error)
	List(ctx context.Context) ([]Asset, error)
}
