// Package config loads and validates node configuration from a YAML file,
// with environment variable overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"chorddht/internal/logger"
)

// RingConfig configures the identifier space and routing variant.
type RingConfig struct {
	IDBits  int    `yaml:"id_bits"`  // M = 2^IDBits
	Variant string `yaml:"variant"`  // "baseline" or "finger"
	Fingers int    `yaml:"fingers"`  // validated for the finger variant; the node's finger table is unbounded and does not read it
}

// TimingConfig controls the message loop's receive timeout, which doubles
// as the stabilization tick per spec §4.1.
type TimingConfig struct {
	ReceiveTimeout string `yaml:"receive_timeout"`
	JoinRetry      string `yaml:"join_retry"`
}

// BootstrapConfig selects how a node discovers peers to join through.
type BootstrapConfig struct {
	Mode    string         `yaml:"mode"` // "static", "dns", "route53"
	Peers   []string       `yaml:"peers"`
	DNS     DNSConfig      `yaml:"dns"`
	Route53 Route53Config  `yaml:"route53"`
}

// DNSConfig configures SRV- or A/AAAA-record based peer discovery.
type DNSConfig struct {
	Name     string `yaml:"name"`     // domain to query
	Resolver string `yaml:"resolver"` // "host:port"; defaults to 8.8.8.8:53
	SRV      bool   `yaml:"srv"`      // query _service._proto.name SRV records instead of A/AAAA
	Service  string `yaml:"service"`
	Proto    string `yaml:"proto"`
	Port     int    `yaml:"port"` // port to pair with plain A/AAAA answers
}

// Route53Config configures AWS Route53-backed rendezvous.
type Route53Config struct {
	HostedZoneID string `yaml:"hosted_zone_id"`
	DomainSuffix string `yaml:"domain_suffix"`
	TTL          int64  `yaml:"ttl"`
}

// FileLoggerConfig configures lumberjack-based log file rotation.
type FileLoggerConfig struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// LoggerConfig configures the node-wide structured logger.
type LoggerConfig struct {
	Active   bool             `yaml:"active"`
	Level    string           `yaml:"level"`
	Encoding string           `yaml:"encoding"` // "json" or "console"
	File     FileLoggerConfig `yaml:"file"`
}

// TracingConfig configures OpenTelemetry span export for lookups.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "otlp"
	Endpoint string `yaml:"endpoint"`
}

// TelemetryConfig is the top-level telemetry section.
type TelemetryConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
}

// NodeConfig configures the node's own listening address.
type NodeConfig struct {
	ID   string `yaml:"id"` // hex id override; derived from addr if empty
	Bind string `yaml:"bind"`
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config is the top-level node configuration.
type Config struct {
	Node      NodeConfig      `yaml:"node"`
	Ring      RingConfig      `yaml:"ring"`
	Timing    TimingConfig    `yaml:"timing"`
	Bootstrap BootstrapConfig `yaml:"bootstrap"`
	Logger    LoggerConfig    `yaml:"logger"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnvOverrides overlays environment variables onto a loaded config.
// Only a small, explicit set of knobs are overridable — the ones an
// operator plausibly needs to vary per-deployment without editing YAML.
func (c *Config) ApplyEnvOverrides() {
	overrideString(&c.Node.ID, "NODE_ID")
	overrideString(&c.Node.Bind, "NODE_BIND")
	overrideString(&c.Node.Host, "NODE_HOST")
	overrideInt(&c.Node.Port, "NODE_PORT")

	overrideInt(&c.Ring.IDBits, "RING_ID_BITS")
	overrideString(&c.Ring.Variant, "RING_VARIANT")
	overrideInt(&c.Ring.Fingers, "RING_FINGERS")

	overrideString(&c.Timing.ReceiveTimeout, "TIMING_RECEIVE_TIMEOUT")
	overrideString(&c.Timing.JoinRetry, "TIMING_JOIN_RETRY")

	overrideString(&c.Bootstrap.Mode, "BOOTSTRAP_MODE")
	overrideStringSlice(&c.Bootstrap.Peers, "BOOTSTRAP_PEERS")
	overrideString(&c.Bootstrap.DNS.Name, "BOOTSTRAP_DNS_NAME")
	overrideString(&c.Bootstrap.Route53.HostedZoneID, "BOOTSTRAP_ROUTE53_ZONE_ID")

	overrideBool(&c.Logger.Active, "LOGGER_ACTIVE")
	overrideString(&c.Logger.Level, "LOGGER_LEVEL")
	overrideString(&c.Logger.Encoding, "LOGGER_ENCODING")

	overrideBool(&c.Telemetry.Tracing.Enabled, "TRACE_ENABLED")
	overrideString(&c.Telemetry.Tracing.Exporter, "TRACE_EXPORTER")
	overrideString(&c.Telemetry.Tracing.Endpoint, "TRACE_ENDPOINT")
}

// ValidateConfig checks that the loaded configuration is internally
// consistent, accumulating every problem found rather than failing fast.
func (c *Config) ValidateConfig() error {
	var problems []string

	if c.Ring.IDBits <= 0 {
		problems = append(problems, "ring.id_bits must be > 0")
	}
	switch c.Ring.Variant {
	case "baseline", "finger":
	default:
		problems = append(problems, fmt.Sprintf("ring.variant %q must be \"baseline\" or \"finger\"", c.Ring.Variant))
	}
	if c.Ring.Variant == "finger" && c.Ring.Fingers <= 0 {
		problems = append(problems, "ring.fingers must be > 0 for the finger variant")
	}

	if c.Timing.ReceiveTimeout == "" {
		problems = append(problems, "timing.receive_timeout must be set")
	}
	if c.Timing.JoinRetry == "" {
		problems = append(problems, "timing.join_retry must be set")
	}

	switch c.Bootstrap.Mode {
	case "static", "dns", "route53":
	default:
		problems = append(problems, fmt.Sprintf("bootstrap.mode %q must be \"static\", \"dns\" or \"route53\"", c.Bootstrap.Mode))
	}
	if c.Bootstrap.Mode == "dns" && c.Bootstrap.DNS.Name == "" {
		problems = append(problems, "bootstrap.dns.name must be set in dns mode")
	}
	if c.Bootstrap.Mode == "route53" && c.Bootstrap.Route53.HostedZoneID == "" {
		problems = append(problems, "bootstrap.route53.hosted_zone_id must be set in route53 mode")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// LogConfig dumps the effective configuration at debug level.
func (c *Config) LogConfig(lgr logger.Logger) {
	lgr.Debug("loaded configuration",
		logger.F("node", c.Node),
		logger.F("ring", c.Ring),
		logger.F("timing", c.Timing),
		logger.F("bootstrap_mode", c.Bootstrap.Mode),
		logger.F("logger", c.Logger),
		logger.F("telemetry", c.Telemetry),
	)
}
