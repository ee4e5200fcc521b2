package config

import "testing"

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("PRALINE_DB_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error without PRALINE_DB_DSN")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PRALINE_DB_DSN", "praline:praline@tcp(localhost:3306)/praline?parseTime=true")
	t.Setenv("PRALINE_AUTH_MODE", "none")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Bind != DefaultBind {
		t.Fatalf("bind: %s", cfg.Bind)
	}
	if !cfg.SearchEnabled {
		t.Fatalf("search should default to enabled")
	}
	if cfg.ML.CLIPModel != DefaultCLIPModel {
		t.Fatalf("clip model: %s", cfg.ML.CLIPModel)
	}
	if cfg.ML.CLIPDimensions != DefaultCLIPDimensions {
		t.Fatalf("clip dimensions: %d", cfg.ML.CLIPDimensions)
	}
	if cfg.ExploreMaxFields != 12 || cfg.ExploreMinAssets != 5 {
		t.Fatalf("explore thresholds: %d/%d", cfg.ExploreMaxFields, cfg.ExploreMinAssets)
	}
}

func TestLoadRejectsBadAuthMode(t *testing.T) {
	t.Setenv("PRALINE_DB_DSN", "praline:praline@tcp(localhost:3306)/praline")
	t.Setenv("PRALINE_AUTH_MODE", "ldap")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown auth mode")
	}
}
