package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	cfgpkg "github.com/vestflow/vestflow/internal/config"
	"github.com/vestflow/vestflow/internal/engine"
	"github.com/vestflow/vestflow/internal/runtime"
	httpserver "github.com/vestflow/vestflow/internal/server/http"
	pebblestore "github.com/vestflow/vestflow/internal/storage/pebble"
	logpkg "github.com/vestflow/vestflow/pkg/log"
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

// Run starts the HTTP server and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context.
	// We layer a local signal context over the provided one.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}
	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: int(opts.FsyncInterval / time.Millisecond),
		Config:        opts.Config,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	// Build the process-wide logger; defaults: level=info, format=text.
	levelName := getenvDefault("VESTFLOW_LOG_LEVEL", opts.Config.LogLevel)
	formatName := getenvDefault("VESTFLOW_LOG_FORMAT", opts.Config.LogFormat)
	level, err := logpkg.ParseLevel(levelName)
	if err != nil {
		level = logpkg.InfoLevel
	}
	format := logpkg.FormatText
	if formatName == "json" {
		format = logpkg.FormatJSON
	}
	procLogger := logpkg.NewLogger(logpkg.WithLevel(level), logpkg.WithFormat(format))

	procLogger.Info("Starting VestFlow server",
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Str("data_dir", opts.DataDir),
		logpkg.Str("level", levelName),
		logpkg.Str("format", formatName),
	)

	eng := engine.New(rt, engine.WithLogger(procLogger.With(logpkg.Component("engine"))))

	// Bootstrap the engine config against a fresh store when configured.
	// An already-initialized store is left alone.
	if bs := opts.Config.Bootstrap; bs.Token != "" && bs.Admin != "" {
		if err := eng.Init(sctx, bs.Token, bs.Admin); err != nil {
			if !engine.IsKind(err, engine.KindAlreadyInitialized) {
				return err
			}
			procLogger.Debug("bootstrap skipped, engine already initialized")
		} else {
			procLogger.Info("engine initialized from bootstrap config",
				logpkg.Str("token", bs.Token), logpkg.Str("admin", bs.Admin))
		}
	}

	hsrv := httpserver.New(rt, eng, procLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server error", logpkg.Err(err))
		}
	}()

	<-sctx.Done()
	// Shut the server down before closing the runtime/DB to avoid races.
	hsrv.Close()
	wg.Wait()
	return nil
}
