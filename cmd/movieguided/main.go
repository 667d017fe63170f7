// Command movieguided is the long-running bot daemon: it scans the
// configured feed on a poll interval, reviews new posts, and records
// outcomes in the history database.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"movieguide/internal/config"
	"movieguide/internal/daemonrun"
	"movieguide/internal/history"
	"movieguide/internal/logging"
	"movieguide/internal/pipeline"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		FilePath: cfg.LogFilePath(),
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		logger.Error("open history store", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	runner, err := pipeline.FromConfig(cfg, store, logger)
	if err != nil {
		logger.Error("wire pipeline", "error", err)
		return
	}

	daemon, err := daemonrun.New(runner, cfg.LockPath(),
		time.Duration(cfg.Workflow.PollInterval)*time.Second, logger)
	if err != nil {
		logger.Error("create daemon", "error", err)
		return
	}

	if err := daemon.Run(ctx); err != nil {
		logger.Error("daemon run", "error", err)
	}
}
