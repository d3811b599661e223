// Command node runs a single DHT peer: it loads configuration, opens its
// UDP endpoint, discovers or creates the ring, and runs the message loop
// until signalled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chorddht/internal/bootstrap"
	"chorddht/internal/config"
	"chorddht/internal/logger"
	loggerzap "chorddht/internal/logger/zap"
	"chorddht/internal/node"
	"chorddht/internal/ring"
	"chorddht/internal/storage"
	"chorddht/internal/telemetry"
	"chorddht/internal/transport"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the node's YAML configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("node: %v", err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("node: %v", err)
	}

	lgr := buildLogger(cfg.Logger)
	cfg.LogConfig(lgr)

	space, err := ring.NewSpace(cfg.Ring.IDBits)
	if err != nil {
		lgr.Error("invalid ring configuration", logger.F("err", err.Error()))
		os.Exit(1)
	}

	tr, err := transport.Listen(cfg.Node.Bind)
	if err != nil {
		lgr.Error("failed to open transport", logger.F("err", err.Error()))
		os.Exit(1)
	}
	defer tr.Close()

	addr := advertiseAddr(cfg, tr)
	selfID := deriveID(space, cfg.Node.ID, addr)
	self := ring.Node{ID: selfID, Addr: addr}
	lgr.Info("node identity", logger.FNode("self", self))

	store := storage.NewMemory(lgr.Named("storage"))
	receiveTimeout := mustParseDuration(lgr, cfg.Timing.ReceiveTimeout)
	joinRetry := mustParseDuration(lgr, cfg.Timing.JoinRetry)

	variant := node.Baseline
	if cfg.Ring.Variant == "finger" {
		variant = node.Finger
	}
	n := node.New(tr, space, self, store, variant, receiveTimeout, joinRetry, node.WithLogger(lgr.Named("node")))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, "chorddht-node", selfID)
	if err != nil {
		lgr.Error("failed to init tracer", logger.F("err", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracer(context.Background())

	disc, err := bootstrap.New(cfg.Bootstrap, lgr.Named("bootstrap"))
	if err != nil {
		lgr.Error("failed to build bootstrap backend", logger.F("err", err.Error()))
		os.Exit(1)
	}
	if err := joinOrCreate(ctx, n, disc, self, joinRetry, lgr); err != nil {
		lgr.Error("failed to join the ring", logger.F("err", err.Error()))
		os.Exit(1)
	}
	defer disc.Deregister(context.Background(), self)

	lgr.Info("entering steady-state message loop", logger.F("addr", addr))
	n.Run(ctx)
	lgr.Info("node stopped")
}

// joinOrCreate discovers peers via disc; if none are known, this node
// creates a fresh ring, otherwise it joins through the first discovered
// peer that answers. It also registers this node's own address so later
// joiners can discover it.
func joinOrCreate(ctx context.Context, n *node.Node, disc bootstrap.Bootstrap, self ring.Node, joinRetry time.Duration, lgr logger.Logger) error {
	peers, err := disc.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover peers: %w", err)
	}
	if len(peers) == 0 {
		n.CreateNewDHT()
	} else {
		joined := false
		for _, peer := range peers {
			if err := n.Join(peer); err != nil {
				lgr.Warn("join attempt failed, trying next peer", logger.F("peer", peer), logger.F("err", err.Error()))
				continue
			}
			joined = true
			break
		}
		if !joined {
			return fmt.Errorf("no discovered peer answered a join request")
		}
	}
	return disc.Register(ctx, self)
}

func buildLogger(cfg config.LoggerConfig) logger.Logger {
	if !cfg.Active {
		return logger.NopLogger{}
	}
	zl, err := loggerzap.New(cfg)
	if err != nil {
		log.Printf("node: failed to build logger, logging disabled: %v", err)
		return logger.NopLogger{}
	}
	return loggerzap.NewAdapter(zl)
}

// advertiseAddr resolves the address other peers should use to reach this
// node: cfg.Node.Host:Port if set, else whatever the transport actually
// bound to (useful for ephemeral/test ports).
func advertiseAddr(cfg *config.Config, tr *transport.Transport) string {
	if cfg.Node.Host != "" && cfg.Node.Port != 0 {
		return fmt.Sprintf("%s:%d", cfg.Node.Host, cfg.Node.Port)
	}
	return tr.LocalAddr()
}

func deriveID(space ring.Space, configuredHex, addr string) ring.ID {
	if configuredHex != "" {
		id, err := space.FromHexString(configuredHex)
		if err == nil {
			return id
		}
	}
	return space.IDFromString(addr)
}

func mustParseDuration(lgr logger.Logger, s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		lgr.Error("invalid duration in configuration, defaulting to 1s", logger.F("value", s), logger.F("err", err.Error()))
		return time.Second
	}
	return d
}
