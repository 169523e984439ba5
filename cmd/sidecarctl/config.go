package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/sidecarctl/internal/supervisor"
)

type fileConfig struct {
	Sidecar       string   `toml:"sidecar"`
	SidecarDir    string   `toml:"sidecar_dir"`
	ListenAddr    string   `toml:"listen_addr"`
	CorsOrigins   []string `toml:"cors_origins"`
	Heartbeat     string   `toml:"heartbeat"`
	History       int      `toml:"history"`
	ShutdownGrace string   `toml:"shutdown_grace"`
}

func loadServiceConfig(path string) (supervisor.ServiceConfig, error) {
	cfg := supervisor.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return supervisor.ServiceConfig{}, fmt.Errorf("load supervisor config: %w", err)
	}

	if meta.IsDefined("sidecar") {
		name := strings.TrimSpace(raw.Sidecar)
		if name != "" {
			cfg.SidecarName = name
		}
	}

	if meta.IsDefined("sidecar_dir") {
		cfg.SidecarDir = strings.TrimSpace(raw.SidecarDir)
	}

	if meta.IsDefined("listen_addr") {
		addr := strings.TrimSpace(raw.ListenAddr)
		if addr != "" {
			cfg.ListenAddr = addr
		}
	}

	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	if meta.IsDefined("heartbeat") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Heartbeat))
		if err != nil {
			return supervisor.ServiceConfig{}, fmt.Errorf("parse heartbeat: %w", err)
		}
		cfg.HeartbeatInterval = d
	}

	if meta.IsDefined("history") {
		cfg.HistorySize = raw.History
	}

	if meta.IsDefined("shutdown_grace") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownGrace))
		if err != nil {
			return supervisor.ServiceConfig{}, fmt.Errorf("parse shutdown_grace: %w", err)
		}
		cfg.ShutdownGrace = d
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
