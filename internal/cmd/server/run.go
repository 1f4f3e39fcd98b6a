package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	cfgpkg "github.com/David2024patton/discord-attendance-bot/internal/config"
	"github.com/David2024patton/discord-attendance-bot/internal/metrics"
	"github.com/David2024patton/discord-attendance-bot/internal/runtime"
	httpserver "github.com/David2024patton/discord-attendance-bot/internal/server/http"
	sessionsvc "github.com/David2024patton/discord-attendance-bot/internal/services/sessions"
	pebblestore "github.com/David2024patton/discord-attendance-bot/internal/storage/pebble"
	logpkg "github.com/David2024patton/discord-attendance-bot/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing; replaced by os.Getenv at build time
var getenv = func(key string) string { return os.Getenv(key) }

type Options struct {
	DataDir       string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// Run opens the runtime, loads the session registry, and serves HTTP until
// ctx is cancelled. The registry load completes before the listener accepts
// traffic, so no action ever races startup.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")

	// Build process-wide logger using env/ApplyConfig; defaults: level=info, format=text
	cfg := &logpkg.Config{
		Level:  getenvDefault("ATTEND_LOG_LEVEL", "info"),
		Format: getenvDefault("ATTEND_LOG_FORMAT", "text"),
	}
	procLogger, err := logpkg.ApplyConfig(cfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(cfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
	}

	// Redirect stdlib log and log/slog (e.g., Pebble, dependencies) to our
	// logger
	logpkg.RedirectStdLog(procLogger)
	logpkg.RedirectSlog(procLogger)

	m := metrics.New(prometheus.DefaultRegisterer)
	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: int(opts.FsyncInterval / time.Millisecond),
		Config:        opts.Config,
		Metrics:       m,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("starting attend server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", cfg.Level),
		logpkg.Str("format", cfg.Format),
	)

	svc := sessionsvc.NewWithLogger(rt, procLogger.With(logpkg.Component("sessions")))
	n, err := svc.Load(sctx)
	if err != nil {
		return err
	}
	procLogger.Info("sessions restored", logpkg.Int("count", n))

	// ListenAndServe drains in-flight requests itself once sctx is done, so
	// the runtime only closes after the listener has fully stopped.
	hsrv := httpserver.NewWithService(rt, svc)
	defer hsrv.Close()
	if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
		return err
	}
	return nil
}
