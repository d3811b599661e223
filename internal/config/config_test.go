package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

const validYAML = `
node:
  bind: "127.0.0.1:5000"
ring:
  id_bits: 10
  variant: baseline
timing:
  receive_timeout: 500ms
  join_retry: 200ms
bootstrap:
  mode: static
  peers: ["127.0.0.1:5001"]
logger:
  active: false
  level: info
  encoding: json
`

func TestLoadAndValidate(t *testing.T) {
	path := writeTempConfig(t, validYAML)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		t.Fatalf("ValidateConfig failed on a valid config: %v", err)
	}
	if cfg.Ring.IDBits != 10 {
		t.Errorf("IDBits = %d, want 10", cfg.Ring.IDBits)
	}
}

const badVariantYAML = `
node:
  bind: "127.0.0.1:5000"
ring:
  id_bits: 10
  variant: bogus
timing:
  receive_timeout: 500ms
  join_retry: 200ms
bootstrap:
  mode: static
  peers: ["127.0.0.1:5001"]
`

func TestValidateRejectsBadVariant(t *testing.T) {
	path := writeTempConfig(t, badVariantYAML)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cfg.ValidateConfig(); err == nil {
		t.Error("expected ValidateConfig to reject an unknown ring variant")
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, validYAML)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	t.Setenv("RING_VARIANT", "finger")
	t.Setenv("RING_FINGERS", "6")
	cfg.ApplyEnvOverrides()
	if cfg.Ring.Variant != "finger" {
		t.Errorf("RING_VARIANT override not applied, got %q", cfg.Ring.Variant)
	}
	if cfg.Ring.Fingers != 6 {
		t.Errorf("RING_FINGERS override not applied, got %d", cfg.Ring.Fingers)
	}
}
