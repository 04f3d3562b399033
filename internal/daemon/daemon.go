// Package daemon ties the resolver, config, and IPC server together
// into the long-running pidpathd process.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/inferiorhumanorgans/pidpath"
	"github.com/inferiorhumanorgans/pidpath/internal/core"
	"github.com/inferiorhumanorgans/pidpath/internal/ipc"
)

// Options configure a daemon instance.
type Options struct {
	// ConfigPath locates the YAML config. A missing file is created
	// with defaults.
	ConfigPath string
	// Version is stamped into stats responses.
	Version string
}

// Daemon is the resolver service process.
type Daemon struct {
	cfgManager *core.ConfigManager
	logger     *zap.SugaredLogger
	level      zap.AtomicLevel
	bus        *core.EventBus
	version    string

	lookups  atomic.Uint64
	resolved atomic.Uint64
	failed   atomic.Uint64
	started  time.Time
}

// New creates a daemon, loading (or creating) its config file.
func New(opts Options) (*Daemon, error) {
	logger, level, err := core.NewLogger(core.LogConfig{})
	if err != nil {
		return nil, err
	}

	bus := core.NewEventBus()
	cfgManager := core.NewConfigManager(logger, opts.ConfigPath, bus)
	if err := cfgManager.Load(); err != nil {
		return nil, fmt.Errorf("daemon: load config: %w", err)
	}

	d := &Daemon{
		cfgManager: cfgManager,
		logger:     logger.Named("daemon"),
		level:      level,
		bus:        bus,
		version:    opts.Version,
		started:    time.Now(),
	}
	d.applyLogLevel(cfgManager.Get().Logging)

	bus.Subscribe(core.EventConfigReloaded, func(core.Event) {
		d.applyLogLevel(d.cfgManager.Get().Logging)
	})
	bus.Subscribe(core.EventClientConnected, d.clientEventHandler("Client connected"))
	bus.Subscribe(core.EventClientDisconnected, d.clientEventHandler("Client disconnected"))

	return d, nil
}

// Lookup resolves pid and keeps the stats counters current. Daemon
// implements pidpath.Resolver.
func (d *Daemon) Lookup(pid int) (string, error) {
	d.lookups.Add(1)
	path, err := pidpath.Lookup(pid)
	if err != nil {
		d.failed.Add(1)
		return "", err
	}
	d.resolved.Add(1)
	return path, nil
}

func (d *Daemon) snapshot() ipc.Stats {
	return ipc.Stats{
		Lookups:       d.lookups.Load(),
		Resolved:      d.resolved.Load(),
		Failed:        d.failed.Load(),
		UptimeSeconds: int64(time.Since(d.started).Seconds()),
		Version:       d.version,
	}
}

func (d *Daemon) clientEventHandler(msg string) core.Handler {
	return func(e core.Event) {
		if p, ok := e.Payload.(core.ClientPayload); ok {
			d.logger.Debugw(msg, "active", p.Active)
		}
	}
}

// applyLogLevel retunes the logger to the configured level. Invalid
// levels are ignored so a bad reload cannot silence the daemon.
func (d *Daemon) applyLogLevel(cfg core.LogConfig) {
	lvl, err := core.ParseLevel(cfg.Level)
	if err != nil {
		d.logger.Warnw("Ignoring invalid log level", "level", cfg.Level)
		return
	}
	if d.level.Level() != lvl {
		d.level.SetLevel(lvl)
		d.logger.Infow("Log level changed", "level", lvl.String())
	}
}

// Run serves IPC requests until ctx is cancelled, a shutdown request
// arrives, the idle grace period expires, or the process receives
// SIGINT/SIGTERM. Returns nil on clean exit.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.logger.Sync()

	cfg := d.cfgManager.Get()

	grace, err := cfg.IdleGrace()
	if err != nil {
		return fmt.Errorf("daemon: %w", err)
	}

	pidFile := cfg.PIDFile
	if pidFile == "" {
		pidFile = defaultPIDFile()
	}
	if pidFile != "" {
		if old, err := ReadPIDFile(pidFile); err == nil && old != os.Getpid() && IsProcessRunning(old) {
			return fmt.Errorf("daemon: already running with pid %d", old)
		}
		if err := WritePIDFile(pidFile, os.Getpid()); err != nil {
			return err
		}
		defer func() {
			if err := RemovePIDFile(pidFile); err != nil {
				d.logger.Warnw("Failed to remove PID file", "path", pidFile, "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownCh := make(chan struct{})
	var shutdownOnce sync.Once
	requestShutdown := func(reason string) {
		shutdownOnce.Do(func() {
			d.logger.Infow("Shutting down", "reason", reason)
			close(shutdownCh)
		})
	}

	tracker := ipc.NewTracker(d.logger, grace, func() {
		requestShutdown("idle timeout")
	})
	server := ipc.NewServer(ipc.ServerConfig{
		Resolver:   d,
		Logger:     d.logger,
		Tracker:    tracker,
		Bus:        d.bus,
		Stats:      d.snapshot,
		OnShutdown: func() { requestShutdown("shutdown request") },
	})

	ln, err := ipc.Listen(cfg.Listen)
	if err != nil {
		return fmt.Errorf("daemon: listen: %w", err)
	}

	d.logger.Infow("Serving", "endpoint", ln.Addr().String(), "version", d.version, "idle_grace", grace)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ln)
	}()

	watchCtx, cancelWatch := context.WithCancel(ctx)
	defer cancelWatch()
	go func() {
		if err := d.cfgManager.WatchFile(watchCtx); err != nil {
			d.logger.Warnw("Config watcher stopped", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
		requestShutdown("signal received")
	case <-shutdownCh:
	case err := <-serveErr:
		tracker.CancelGrace()
		server.Stop()
		return err
	}

	tracker.CancelGrace()
	server.Stop()
	<-serveErr
	return nil
}
