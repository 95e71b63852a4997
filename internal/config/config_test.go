package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.DebugMode {
		t.Error("expected debug mode disabled by default")
	}
	if cfg.Engine.MaxFactLimit != 0 {
		t.Error("expected zero fact limit by default")
	}
}

func TestLoadParsesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".clara")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	content := `{
		"logging": {"debug_mode": true, "level": "debug"},
		"engine": {"max_fact_limit": 1000, "default_activation_group": 5}
	}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Logging.DebugMode {
		t.Error("expected debug mode enabled")
	}
	if cfg.Engine.MaxFactLimit != 1000 {
		t.Errorf("expected fact limit 1000, got %d", cfg.Engine.MaxFactLimit)
	}
	if cfg.Engine.DefaultActivationGroup != 5 {
		t.Errorf("expected default activation group 5, got %d", cfg.Engine.DefaultActivationGroup)
	}
}
