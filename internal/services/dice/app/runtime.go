package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	dicesqlite "github.com/louisbranch/dicemaiden/internal/services/dice/storage/sqlite"
)

// RuntimeConfig selects the roller cache size and optional history database.
type RuntimeConfig struct {
	// HistoryDB is the SQLite path for roll history; empty disables history.
	HistoryDB     string
	PlanCacheSize int
}

// Runtime owns a Service and the history store it records to.
type Runtime struct {
	Service *Service
	store   *dicesqlite.Store
}

// Open builds a Service from cfg, opening the history store when configured.
func Open(ctx context.Context, cfg RuntimeConfig, opts ...Option) (*Runtime, error) {
	var rollerOpts []roller.Option
	if cfg.PlanCacheSize > 0 {
		rollerOpts = append(rollerOpts, roller.WithCacheSize(cfg.PlanCacheSize))
	}
	r, err := roller.New(rollerOpts...)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{}
	if path := strings.TrimSpace(cfg.HistoryDB); path != "" {
		store, err := openHistoryStore(ctx, path)
		if err != nil {
			return nil, err
		}
		rt.store = store
		opts = append([]Option{WithStore(store)}, opts...)
	}
	rt.Service = NewService(r, opts...)
	return rt, nil
}

// Close releases the history store.
func (rt *Runtime) Close() {
	if rt == nil || rt.store == nil {
		return
	}
	if err := rt.store.Close(); err != nil {
		log.Printf("close history store: %v", err)
	}
	rt.store = nil
}

func openHistoryStore(ctx context.Context, path string) (*dicesqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := dicesqlite.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open history sqlite store: %w", err)
	}
	return store, nil
}
