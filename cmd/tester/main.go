// Command tester drives randomized PUT/GET load against an already
// running fleet of nodes (discovered via Docker or Route53) and records
// each outcome, for out-of-band integration testing of a deployed ring.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chorddht/internal/bootstrap"
	baseconfig "chorddht/internal/config"
	"chorddht/internal/logger"
	loggerzap "chorddht/internal/logger/zap"
	"chorddht/internal/ring"
	"chorddht/internal/tester"
	"chorddht/internal/tester/writer"
)

func main() {
	configPath := flag.String("config", "config/tester.yaml", "path to the tester's YAML configuration file")
	flag.Parse()

	cfg, err := tester.Load(*configPath)
	if err != nil {
		log.Fatalf("tester: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("tester: %v", err)
	}

	lgr := buildLogger(cfg.Logger)
	cfg.LogConfig(lgr)

	var w writer.Writer
	if cfg.CSV.Enabled {
		w, err = writer.NewCSVWriter(cfg.CSV.Path)
		if err != nil {
			lgr.Error("failed to initialize CSV writer", logger.F("err", err.Error()))
			os.Exit(1)
		}
	} else {
		w = writer.NopWriter{}
	}
	defer w.Close()

	space, err := ring.NewSpace(cfg.Ring.IDBits)
	if err != nil {
		lgr.Error("failed to initialize ring space", logger.F("err", err.Error()))
		os.Exit(1)
	}

	var boot bootstrap.Bootstrap
	if cfg.Bootstrap.Mode == "route53" {
		boot, err = bootstrap.NewRoute53(cfg.Bootstrap.Route53)
		if err != nil {
			lgr.Error("failed to initialize route53 bootstrap", logger.F("err", err.Error()))
			os.Exit(1)
		}
	} else {
		boot = tester.NewDockerBootstrap(cfg.Bootstrap.Docker.ContainerSuffix, cfg.Bootstrap.Docker.Port, cfg.Bootstrap.Docker.Network)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	runner := tester.New(cfg, lgr.Named("runner"), w, boot, space)
	start := time.Now()
	if err := runner.Run(ctx); err != nil {
		lgr.Error("tester run failed", logger.F("err", err.Error()))
	}
	lgr.Info("tester finished", logger.F("elapsed", time.Since(start).String()))
}

func buildLogger(cfg baseconfig.LoggerConfig) logger.Logger {
	if !cfg.Active {
		return logger.NopLogger{}
	}
	zl, err := loggerzap.New(cfg)
	if err != nil {
		log.Printf("tester: failed to build logger, logging disabled: %v", err)
		return logger.NopLogger{}
	}
	return loggerzap.NewAdapter(zl)
}
