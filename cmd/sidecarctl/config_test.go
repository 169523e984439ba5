package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServiceConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "config.toml")
	content := `
sidecar = "api"
sidecar_dir = "/opt/sidecars"
listen_addr = "127.0.0.1:7200"
cors_origins = ["http://localhost:5173", "https://app.example.com"]
heartbeat = "2s"
history = 64
shutdown_grace = "10s"
	`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SidecarName != "api" {
		t.Fatalf("unexpected sidecar name: %q", cfg.SidecarName)
	}
	if cfg.SidecarDir != "/opt/sidecars" {
		t.Fatalf("unexpected sidecar dir: %q", cfg.SidecarDir)
	}
	if cfg.ListenAddr != "127.0.0.1:7200" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if len(cfg.CorsOrigins) != 2 || cfg.CorsOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CorsOrigins)
	}
	if cfg.HeartbeatInterval != 2*time.Second {
		t.Fatalf("unexpected heartbeat interval: %v", cfg.HeartbeatInterval)
	}
	if cfg.HistorySize != 64 {
		t.Fatalf("unexpected history size: %d", cfg.HistorySize)
	}
	if cfg.ShutdownGrace != 10*time.Second {
		t.Fatalf("unexpected shutdown grace: %v", cfg.ShutdownGrace)
	}
}

func TestLoadServiceConfigPreservesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`
listen_addr = "127.0.0.1:7201"
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SidecarName != "backend" {
		t.Fatalf("unexpected default sidecar name: %q", cfg.SidecarName)
	}
	if cfg.HeartbeatInterval != 5*time.Second {
		t.Fatalf("unexpected default heartbeat interval: %v", cfg.HeartbeatInterval)
	}
	if cfg.HistorySize != 256 {
		t.Fatalf("unexpected default history size: %d", cfg.HistorySize)
	}
	if cfg.ShutdownGrace != 5*time.Second {
		t.Fatalf("unexpected default shutdown grace: %v", cfg.ShutdownGrace)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected default cors origins: %+v", cfg.CorsOrigins)
	}
}

func TestLoadServiceConfigDropsBlankOrigins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`
cors_origins = [" http://localhost:5173 ", "", "  "]
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CorsOrigins)
	}
}

func TestLoadServiceConfigRejectsBadHeartbeat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`
heartbeat = "soon"
`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected heartbeat parse error")
	}
}
