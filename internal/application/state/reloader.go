package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/pgperffarm/farmplot/internal/core/model"
	"github.com/pgperffarm/farmplot/internal/util"
)

// DatasetLoader fetches and parses a dataset from a source.
type DatasetLoader interface {
	Load(ctx context.Context, source string) (*model.Dataset, error)
}

// Reloader keeps a Store in sync with its source.
type Reloader struct {
	store  *Store
	loader DatasetLoader
	source string
}

// NewReloader creates a reloader for source.
func NewReloader(store *Store, loader DatasetLoader, source string) *Reloader {
	return &Reloader{store: store, loader: loader, source: source}
}

// Reload performs one load and hands the result to the store.
func (r *Reloader) Reload(ctx context.Context) error {
	gen := r.store.Begin()
	ds, err := r.loader.Load(ctx, r.source)
	applied := r.store.Finish(gen, ds, err)

	if !applied {
		util.LogDebug("Discarded stale load", util.F("source", r.source), util.F("generation", gen))
		return nil
	}
	if err != nil {
		util.LogError("Failed to load data", util.F("source", r.source), util.F("error", err))
		return fmt.Errorf("reload %s: %w", r.source, err)
	}
	return nil
}

// Run loads once and then again each time changes fires, until ctx is
// done. A nil changes channel means no reloads after the first. Load
// errors are logged and do not stop the loop.
func (r *Reloader) Run(ctx context.Context, changes <-chan struct{}) error {
	_ = r.Reload(ctx)

	for {
		select {
		case <-ctx.Done():
			r.store.Close()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			util.LogInfo("Source changed, reloading", util.F("source", r.source))
			_ = r.Reload(ctx)
		}
	}
}
