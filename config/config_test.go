package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `http:
  addr: ":9090"
  api_token: "secret"
storage:
  backend: "sqlite"
  path: "fleet.db"
booking:
  base_url: "https://booking.example.com"
  auth:
    client_id: "cli"
    client_secret: "sec"
    auth_url: "https://booking.example.com/token"
dispatch:
  buffer_hours: 2
  conflict_threshold_minutes: 45
  commit_retries: 5
metrics:
  prometheus_enabled: true
  prometheus_port: "2113"
notify:
  broker: "tcp://localhost:1883"
  topic: "ops/alerts"
assignment_log:
  backend: "sqlite"
  path: "assignments.db"
sentry:
  dsn: "https://key@sentry.example.com/1"
  environment: "staging"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"http.addr", cfg.HTTP.Addr, ":9090"},
		{"http.api_token", cfg.HTTP.APIToken, "secret"},
		{"storage.backend", cfg.Storage.Backend, "sqlite"},
		{"storage.path", cfg.Storage.Path, "fleet.db"},
		{"booking.base_url", cfg.Booking.BaseURL, "https://booking.example.com"},
		{"booking.client_id", cfg.Booking.Auth.ClientID, "cli"},
		{"dispatch.buffer_hours", cfg.Dispatch.BufferHours, 2.0},
		{"dispatch.threshold", cfg.Dispatch.ConflictThresholdMinutes, 45},
		{"dispatch.retries", cfg.Dispatch.CommitRetries, 5},
		{"metrics.prom_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prom_port", cfg.Metrics.PrometheusPort, "2113"},
		{"notify.topic", cfg.Notify.Topic, "ops/alerts"},
		{"log.backend", cfg.AssignmentLog.Backend, "sqlite"},
		{"log.path", cfg.AssignmentLog.Path, "assignments.db"},
		{"sentry.environment", cfg.Sentry.Environment, "staging"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr default: %s", cfg.HTTP.Addr)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("storage backend default: %s", cfg.Storage.Backend)
	}
	if cfg.Dispatch.ConflictThresholdMinutes != 60 {
		t.Errorf("threshold default: %d", cfg.Dispatch.ConflictThresholdMinutes)
	}
	if cfg.AssignmentLog.Backend != "jsonl" {
		t.Errorf("log backend default: %s", cfg.AssignmentLog.Backend)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "storage:\n  backend: \"postgres\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoad_RejectsUnknownExtension(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
