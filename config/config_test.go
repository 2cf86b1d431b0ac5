package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RELAY_TOKEN", "")
	writeConfig(t, "http:\n  addr: \":8080\"\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Logging.Service != "sync-service" {
		t.Errorf("service default: got %q", cfg.Logging.Service)
	}
	if cfg.Signaling.MaxClients != 10 {
		t.Errorf("maxClients default: got %d", cfg.Signaling.MaxClients)
	}
	if got := cfg.SignalingTTL(); got != 10*time.Minute {
		t.Errorf("ttl default: got %v", got)
	}
	if got := cfg.PingInterval(); got != 15*time.Second {
		t.Errorf("pingInterval default: got %v", got)
	}
}

func TestLoadConfig_MissingAddrFails(t *testing.T) {
	writeConfig(t, "logging:\n  env: dev\n")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing http.addr")
	}
}

func TestLoadConfig_RelayTokenEnvOverride(t *testing.T) {
	writeConfig(t, "http:\n  addr: \":8080\"\nrelay:\n  token: from-file\n")
	t.Setenv("RELAY_TOKEN", "from-env")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Relay.Token != "from-env" {
		t.Errorf("token: got %q, want env override", cfg.Relay.Token)
	}
}

func TestLoadConfig_ParsesDurations(t *testing.T) {
	t.Setenv("RELAY_TOKEN", "")
	writeConfig(t, "http:\n  addr: \":8080\"\nws:\n  pingInterval: 30s\nsignaling:\n  ttl: 5m\n")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.PingInterval(); got != 30*time.Second {
		t.Errorf("pingInterval: got %v", got)
	}
	if got := cfg.SignalingTTL(); got != 5*time.Minute {
		t.Errorf("ttl: got %v", got)
	}
}
