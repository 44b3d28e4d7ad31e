package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.RetrievalTopK != 10 {
		t.Fatalf("RetrievalTopK = %d, want 10", cfg.RetrievalTopK)
	}
	if cfg.FusionStrategy != "occurrence" {
		t.Fatalf("FusionStrategy = %q, want occurrence", cfg.FusionStrategy)
	}
}

func TestLoadYAMLFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "api_port: \"9191\"\nfusion_strategy: rrf\nretrieval_top_k: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "9191" {
		t.Fatalf("APIPort = %q, want 9191", cfg.APIPort)
	}
	if cfg.FusionStrategy != "rrf" {
		t.Fatalf("FusionStrategy = %q, want rrf", cfg.FusionStrategy)
	}
	if cfg.RetrievalTopK != 3 {
		t.Fatalf("RetrievalTopK = %d, want 3", cfg.RetrievalTopK)
	}
	// Untouched keys keep their defaults.
	if cfg.ChunkSize != 1000 {
		t.Fatalf("ChunkSize = %d, want 1000", cfg.ChunkSize)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("retrieval_top_k: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("RETRIEVAL_TOP_K", "7")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RetrievalTopK != 7 {
		t.Fatalf("RetrievalTopK = %d, want 7", cfg.RetrievalTopK)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("APIRateLimitRPS = %v, want 2.5", cfg.APIRateLimitRPS)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api_port: [\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
