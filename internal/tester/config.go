// Package tester drives an out-of-band integration fleet: it discovers
// already-running peer processes (via Docker or Route53), then hammers
// them with randomized PUT/GET waves, recording each outcome.
package tester

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	baseconfig "chorddht/internal/config"
	"chorddht/internal/logger"
)

// SimulationConfig controls the overall run duration.
type SimulationConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// RingConfig describes the keyspace of the ring under test.
type RingConfig struct {
	IDBits int `yaml:"id_bits"`
}

// DockerBootstrapConfig discovers peers among containers on a shared
// Docker network, matched by name suffix.
type DockerBootstrapConfig struct {
	ContainerSuffix string `yaml:"container_suffix"`
	Network         string `yaml:"network"`
	Port            int    `yaml:"port"`
}

// BootstrapConfig selects how the tester discovers the fleet under test.
type BootstrapConfig struct {
	Mode    string                   `yaml:"mode"` // "docker" or "route53"
	Docker  DockerBootstrapConfig    `yaml:"docker"`
	Route53 baseconfig.Route53Config `yaml:"route53"`
}

// CSVConfig controls result recording.
type CSVConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ParallelismConfig bounds the worker pool driving query waves.
type ParallelismConfig struct {
	MinWorkers int `yaml:"min"`
	MaxWorkers int `yaml:"max"`
}

// QueryConfig shapes the generated PUT/GET load.
type QueryConfig struct {
	Rate        float64           `yaml:"rate"` // queries per second, fleet-wide
	Timeout     time.Duration     `yaml:"timeout"`
	Parallelism ParallelismConfig `yaml:"parallelism"`
	PutRatio    float64           `yaml:"put_ratio"` // fraction of queries that are PUTs rather than GETs
}

// Config is the tester's root configuration.
type Config struct {
	Logger     baseconfig.LoggerConfig `yaml:"logger"`
	Simulation SimulationConfig        `yaml:"simulation"`
	Ring       RingConfig              `yaml:"ring"`
	Bootstrap  BootstrapConfig         `yaml:"bootstrap"`
	CSV        CSVConfig               `yaml:"csv"`
	Query      QueryConfig             `yaml:"query"`
}

// Load reads path and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tester config: read %q: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("tester config: parse %q: %w", path, err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrideBool(&c.Logger.Active, "LOGGER_ACTIVE")
	overrideString(&c.Logger.Level, "LOGGER_LEVEL")
	overrideString(&c.Logger.Encoding, "LOGGER_ENCODING")

	overrideDuration(&c.Simulation.Duration, "SIM_DURATION")
	overrideInt(&c.Ring.IDBits, "RING_ID_BITS")

	overrideString(&c.Bootstrap.Mode, "BOOTSTRAP_MODE")
	overrideString(&c.Bootstrap.Docker.ContainerSuffix, "DOCKER_SUFFIX")
	overrideString(&c.Bootstrap.Docker.Network, "DOCKER_NETWORK")
	overrideInt(&c.Bootstrap.Docker.Port, "DOCKER_PORT")

	overrideString(&c.Bootstrap.Route53.HostedZoneID, "ROUTE53_ZONE_ID")
	overrideString(&c.Bootstrap.Route53.DomainSuffix, "ROUTE53_DOMAIN_SUFFIX")
	overrideInt64(&c.Bootstrap.Route53.TTL, "ROUTE53_TTL")

	overrideBool(&c.CSV.Enabled, "CSV_ENABLED")
	overrideString(&c.CSV.Path, "CSV_PATH")

	overrideFloat(&c.Query.Rate, "QUERY_RATE")
	overrideDuration(&c.Query.Timeout, "QUERY_TIMEOUT")
	overrideInt(&c.Query.Parallelism.MinWorkers, "QUERY_PARALLELISM_MIN")
	overrideInt(&c.Query.Parallelism.MaxWorkers, "QUERY_PARALLELISM_MAX")
	overrideFloat(&c.Query.PutRatio, "QUERY_PUT_RATIO")
}

// Validate checks the loaded configuration, accumulating every problem.
func (c *Config) Validate() error {
	var errs []string

	if c.Logger.Active {
		switch c.Logger.Level {
		case "debug", "info", "warn", "error":
		default:
			errs = append(errs, fmt.Sprintf("logger.level must be one of [debug, info, warn, error], got %q", c.Logger.Level))
		}
	}

	if c.Simulation.Duration <= 0 {
		errs = append(errs, fmt.Sprintf("simulation.duration must be > 0 (got %v)", c.Simulation.Duration))
	}

	if c.Ring.IDBits <= 0 {
		errs = append(errs, fmt.Sprintf("ring.id_bits must be > 0 (got %d)", c.Ring.IDBits))
	}

	switch c.Bootstrap.Mode {
	case "docker":
		d := c.Bootstrap.Docker
		if d.ContainerSuffix == "" {
			errs = append(errs, "bootstrap.docker.container_suffix must not be empty when mode = docker")
		}
		if d.Port <= 0 {
			errs = append(errs, fmt.Sprintf("bootstrap.docker.port must be > 0 (got %d)", d.Port))
		}
	case "route53":
		r := c.Bootstrap.Route53
		if r.HostedZoneID == "" {
			errs = append(errs, "bootstrap.route53.hosted_zone_id must not be empty when mode = route53")
		}
		if r.DomainSuffix == "" {
			errs = append(errs, "bootstrap.route53.domain_suffix must not be empty when mode = route53")
		}
	default:
		errs = append(errs, fmt.Sprintf("bootstrap.mode must be one of [docker, route53], got %q", c.Bootstrap.Mode))
	}

	if c.CSV.Enabled && c.CSV.Path == "" {
		errs = append(errs, "csv.path must be set when csv.enabled = true")
	}

	if c.Query.Rate <= 0 {
		errs = append(errs, fmt.Sprintf("query.rate must be > 0 (got %f)", c.Query.Rate))
	}
	if c.Query.PutRatio < 0 || c.Query.PutRatio > 1 {
		errs = append(errs, fmt.Sprintf("query.put_ratio must be within [0,1] (got %f)", c.Query.PutRatio))
	}
	if c.Query.Parallelism.MinWorkers <= 0 {
		errs = append(errs, fmt.Sprintf("query.parallelism.min must be > 0 (got %d)", c.Query.Parallelism.MinWorkers))
	}
	if c.Query.Parallelism.MaxWorkers < c.Query.Parallelism.MinWorkers {
		errs = append(errs, fmt.Sprintf("query.parallelism.max must be >= min (got %d < %d)",
			c.Query.Parallelism.MaxWorkers, c.Query.Parallelism.MinWorkers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("tester config: invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LogConfig dumps the effective configuration.
func (c *Config) LogConfig(lgr logger.Logger) {
	lgr.Info("loaded tester configuration",
		logger.F("logger.active", c.Logger.Active),
		logger.F("logger.level", c.Logger.Level),

		logger.F("simulation.duration", c.Simulation.Duration.String()),
		logger.F("ring.id_bits", c.Ring.IDBits),

		logger.F("bootstrap.mode", c.Bootstrap.Mode),
		logger.F("bootstrap.docker.suffix", c.Bootstrap.Docker.ContainerSuffix),
		logger.F("bootstrap.docker.network", c.Bootstrap.Docker.Network),
		logger.F("bootstrap.docker.port", c.Bootstrap.Docker.Port),

		logger.F("csv.enabled", c.CSV.Enabled),
		logger.F("csv.path", c.CSV.Path),

		logger.F("query.rate", c.Query.Rate),
		logger.F("query.put_ratio", c.Query.PutRatio),
		logger.F("query.parallelism.min", c.Query.Parallelism.MinWorkers),
		logger.F("query.parallelism.max", c.Query.Parallelism.MaxWorkers),
	)
}

func overrideString(dst *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*dst = v
	}
}

func overrideBool(dst *bool, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	*dst = v == "true" || v == "1"
}

func overrideInt(dst *int, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
		*dst = n
	}
}

func overrideInt64(dst *int64, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	var n int64
	if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
		*dst = n
	}
}

func overrideFloat(dst *float64, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	var f float64
	if _, err := fmt.Sscanf(v, "%f", &f); err == nil {
		*dst = f
	}
}

func overrideDuration(dst *time.Duration, env string) {
	v, ok := os.LookupEnv(env)
	if !ok {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
	}
}
