package tester

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"chorddht/internal/bootstrap"
	"chorddht/internal/client"
	"chorddht/internal/logger"
	"chorddht/internal/ring"
	"chorddht/internal/tester/writer"
)

// Tester drives randomized PUT/GET load against a discovered fleet of
// already-running nodes and records each outcome.
type Tester struct {
	cfg     *Config
	logger  logger.Logger
	writer  writer.Writer
	boot    bootstrap.Bootstrap
	space   ring.Space
	client  *client.Client
	started time.Time

	mu    sync.Mutex
	known map[string]string // key -> value, for GETs that should hit a key we actually put
}

// New builds a Tester.
func New(cfg *Config, lgr logger.Logger, w writer.Writer, boot bootstrap.Bootstrap, space ring.Space) *Tester {
	return &Tester{
		cfg:    cfg,
		logger: lgr,
		writer: w,
		boot:   boot,
		space:  space,
		client: client.New(cfg.Query.Timeout),
		known:  make(map[string]string),
	}
}

// Run drives query waves at cfg.Query.Rate until cfg.Simulation.Duration
// elapses or ctx is cancelled.
func (t *Tester) Run(ctx context.Context) error {
	t.logger.Info("tester started", logger.F("duration", t.cfg.Simulation.Duration))
	t.started = time.Now()
	endTime := t.started.Add(t.cfg.Simulation.Duration)
	interval := time.Duration(float64(time.Second) / t.cfg.Query.Rate)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if time.Now().After(endTime) {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := t.runQueryWave(ctx); err != nil {
				t.logger.Error("query wave failed", logger.F("err", err.Error()))
			}
		}
	}

	t.logger.Info("tester finished")
	return t.writer.Flush()
}

// runQueryWave discovers the current fleet and fires a random number of
// parallel PUT/GET queries against it.
func (t *Tester) runQueryWave(ctx context.Context) error {
	nodes, err := t.boot.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discover fleet: %w", err)
	}
	if len(nodes) == 0 {
		t.logger.Warn("no nodes discovered")
		return nil
	}

	p := randomInt(t.cfg.Query.Parallelism.MinWorkers, t.cfg.Query.Parallelism.MaxWorkers)
	t.logger.Info("starting query wave", logger.F("parallel", p), logger.F("nodes", len(nodes)))

	var wg sync.WaitGroup
	wg.Add(p)
	for i := 0; i < p; i++ {
		go func() {
			defer wg.Done()
			select {
			case <-ctx.Done():
				return
			default:
				t.doQuery(nodes)
			}
		}()
	}
	wg.Wait()
	return nil
}

// doQuery performs one PUT or GET against a randomly chosen node,
// logging and recording the outcome.
func (t *Tester) doQuery(nodes []string) {
	node := nodes[mrand.Intn(len(nodes))]

	if mrand.Float64() < t.cfg.Query.PutRatio {
		t.doPut(node)
		return
	}
	t.doGet(node)
}

func (t *Tester) doPut(node string) {
	key, err := t.generateRandomKey()
	if err != nil {
		t.logger.Warn("failed to generate random key", logger.F("err", err.Error()))
		return
	}
	value, err := t.generateRandomKey()
	if err != nil {
		t.logger.Warn("failed to generate random value", logger.F("err", err.Error()))
		return
	}

	start := time.Now()
	err = t.client.Put(node, key, value)
	delay := time.Since(start)

	result := "SUCCESS"
	if err != nil {
		if errors.Is(err, client.ErrTimeout) {
			result = "TIMEOUT"
		} else {
			result = fmt.Sprintf("ERROR_%v", err)
		}
	} else {
		t.mu.Lock()
		t.known[key] = value
		t.mu.Unlock()
	}

	t.record(node, "PUT", key, result, delay)
}

func (t *Tester) doGet(node string) {
	key := t.pickKnownKey()
	start := time.Now()
	_, found, err := t.client.Get(node, key)
	delay := time.Since(start)

	var result string
	switch {
	case errors.Is(err, client.ErrTimeout):
		result = "TIMEOUT"
	case err != nil:
		result = fmt.Sprintf("ERROR_%v", err)
	case !found:
		result = "NOT_FOUND"
	default:
		result = "SUCCESS"
	}

	t.record(node, "GET", key, result, delay)
}

// pickKnownKey returns a key this tester has previously PUT, when one is
// available, so GET waves exercise real hits rather than only misses.
func (t *Tester) pickKnownKey() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k := range t.known {
		return k
	}
	key, _ := t.generateRandomKey()
	return key
}

func (t *Tester) record(node, op, key, result string, delay time.Duration) {
	t.logger.Info("query result",
		logger.F("node", node),
		logger.F("op", op),
		logger.F("key", key),
		logger.F("result", result),
		logger.F("delay_ms", delay.Milliseconds()),
	)
	if err := t.writer.WriteRow(node, op, result, delay); err != nil {
		t.logger.Warn("failed to write result row", logger.F("err", err.Error()))
	}
}

// randomInt returns a random integer in [min, max].
func randomInt(min, max int) int {
	if min >= max {
		return min
	}
	return mrand.Intn(max-min+1) + min
}

// generateRandomKey returns a random hex string for use as a key or value.
func (t *Tester) generateRandomKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
