package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/David2024patton/discord-attendance-bot/internal/config"
	"github.com/David2024patton/discord-attendance-bot/internal/eventfeed"
	"github.com/David2024patton/discord-attendance-bot/internal/metrics"
	pebblestore "github.com/David2024patton/discord-attendance-bot/internal/storage/pebble"
	"github.com/David2024patton/discord-attendance-bot/internal/store"
)

// Options for building the Runtime.
type Options struct {
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval int // milliseconds, used when Fsync is interval mode
	Config        cfgpkg.Config
	// Metrics is optional; when set it is wired into the storage hook seam.
	Metrics *metrics.Set
}

// Runtime wires storage, config, and facades for a single-node instance.
type Runtime struct {
	db      *pebblestore.DB
	store   *store.Store
	feed    *eventfeed.Feed
	config  cfgpkg.Config
	metrics *metrics.Set
}

// Open initializes the underlying storage and returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	var hook pebblestore.MetricsHook
	if opts.Metrics != nil {
		hook = opts.Metrics
	}
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: msToDuration(opts.FsyncInterval),
		Metrics:       hook,
	})
	if err != nil {
		return nil, err
	}
	feed, err := eventfeed.Open(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Runtime{
		db:      db,
		store:   store.Open(db),
		feed:    feed,
		config:  opts.Config,
		metrics: opts.Metrics,
	}, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth performs a simple storage liveness check.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// Store returns the roster persistence layer.
func (r *Runtime) Store() *store.Store { return r.store }

// Feed returns the durable promotion/lifecycle event feed.
func (r *Runtime) Feed() *eventfeed.Feed { return r.feed }

// DB exposes the underlying DB for advanced operations (internal use only).
func (r *Runtime) DB() *pebblestore.DB { return r.db }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Metrics returns the collector set, or nil when metrics are disabled.
func (r *Runtime) Metrics() *metrics.Set { return r.metrics }

func msToDuration(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
