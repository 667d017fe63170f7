package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"movieguide/internal/pipeline"
)

// Scanner is the batch scan the daemon drives. Satisfied by
// pipeline.Runner.
type Scanner interface {
	Run(ctx context.Context) (*pipeline.RunStats, error)
}

// Daemon runs scans on a fixed interval and enforces single-instance
// execution through a lock file.
type Daemon struct {
	scanner  Scanner
	logger   *slog.Logger
	interval time.Duration

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon. The lock file's parent directory must exist.
func New(scanner Scanner, lockPath string, interval time.Duration, logger *slog.Logger) (*Daemon, error) {
	if scanner == nil {
		return nil, errors.New("daemon requires a scanner")
	}
	if lockPath == "" {
		return nil, errors.New("daemon requires a lock path")
	}
	if interval <= 0 {
		return nil, errors.New("daemon requires a positive poll interval")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	return &Daemon{
		scanner:  scanner,
		logger:   logger,
		interval: interval,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Running reports whether the scan loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// LockPath returns the lock file location.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Run blocks until ctx is cancelled: one scan immediately, then one per
// poll interval. Scan failures are logged and do not stop the loop.
func (d *Daemon) Run(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another movieguide daemon instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", "error", err)
		}
	}()

	d.running.Store(true)
	defer d.running.Store(false)
	d.logger.Info("daemon started", "lock", d.lockPath, "poll_interval", d.interval)

	d.scan(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("daemon stopped")
			return nil
		case <-ticker.C:
			d.scan(ctx)
		}
	}
}

func (d *Daemon) scan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	stats, err := d.scanner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		d.logger.Error("scan failed", "error", err)
		return
	}
	if stats != nil && stats.Processed > 0 {
		d.logger.Info("scan complete",
			"run_id", stats.RunID,
			"processed", stats.Processed,
			"exact", stats.Exact,
			"errors", stats.Errors)
	}
}
