package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func resetLoggingState() {
	CloseAll()
	CloseAudit()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
	configLoaded = false
	auditLogger = nil
}

// TestAllCategoriesLog verifies that every category produces a non-empty log
// file when debug_mode is enabled.
func TestAllCategoriesLog(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".clara")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"session": true,
				"network": true,
				"alpha": true,
				"beta": true,
				"scheduler": true,
				"tms": true,
				"query": true,
				"rhs": true
			}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot,
		CategorySession,
		CategoryNetwork,
		CategoryAlpha,
		CategoryBeta,
		CategoryScheduler,
		CategoryTMS,
		CategoryQuery,
		CategoryRHS,
	}

	for _, cat := range categories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("category %s should be enabled", cat)
		}

		logger := Get(cat)
		logger.Info("test info message for %s", cat)
		logger.Debug("test debug message for %s", cat)
		logger.Warn("test warn message for %s", cat)
		logger.Error("test error message for %s", cat)
	}

	Boot("convenience boot log")
	Session("convenience session log")
	Network("convenience network log")
	Alpha("convenience alpha log")
	Beta("convenience beta log")
	Scheduler("convenience scheduler log")
	TMS("convenience tms log")
	Query("convenience query log")
	RHS("convenience rhs log")

	CloseAll()
	CloseAudit()

	logsPath := filepath.Join(tempDir, ".clara", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("failed to read logs dir: %v", err)
	}

	for _, cat := range categories {
		found := false
		for _, entry := range entries {
			if strings.Contains(entry.Name(), string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
				if err != nil {
					t.Errorf("failed to read log file for %s: %v", cat, err)
					continue
				}
				if len(content) == 0 {
					t.Errorf("log file for %s is empty", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("no log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled verifies that no log files are created in production
// mode (debug_mode: false).
func TestDebugModeDisabled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_disabled")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".clara")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": false,
			"categories": {"boot": true, "scheduler": true}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize logging: %v", err)
	}

	if IsDebugMode() {
		t.Error("expected debug mode to be disabled (production mode)")
	}

	for _, cat := range []Category{CategoryBoot, CategoryScheduler, CategoryAlpha} {
		if IsCategoryEnabled(cat) {
			t.Errorf("category %s should be disabled when debug_mode=false", cat)
		}
	}

	Boot("this should not be logged")
	Scheduler("this should not be logged")

	logger := Get(CategoryBoot)
	logger.Info("this should not be logged")
	logger.Error("this should not be logged")

	CloseAll()
	CloseAudit()

	logsPath := filepath.Join(tempDir, ".clara", "logs")
	if _, err := os.Stat(logsPath); err == nil {
		entries, _ := os.ReadDir(logsPath)
		if len(entries) > 0 {
			t.Errorf("expected no log files in production mode, found %d", len(entries))
		}
	} else if !os.IsNotExist(err) {
		t.Fatalf("unexpected stat error: %v", err)
	}
}

// TestCategoryToggle verifies per-category enable/disable overrides.
func TestCategoryToggle(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_category")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".clara")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}

	configContent := `{
		"logging": {
			"level": "debug",
			"debug_mode": true,
			"categories": {
				"boot": true,
				"scheduler": true,
				"alpha": false,
				"beta": false
			}
		}
	}`

	configPath := filepath.Join(configDir, "config.json")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	resetLoggingState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize: %v", err)
	}

	if !IsCategoryEnabled(CategoryBoot) {
		t.Error("boot should be enabled")
	}
	if !IsCategoryEnabled(CategoryScheduler) {
		t.Error("scheduler should be enabled")
	}
	if IsCategoryEnabled(CategoryAlpha) {
		t.Error("alpha should be disabled")
	}
	if IsCategoryEnabled(CategoryBeta) {
		t.Error("beta should be disabled")
	}

	// Category not mentioned in config defaults to enabled when debug_mode=true.
	if !IsCategoryEnabled(CategoryTMS) {
		t.Error("tms (not in config) should default to enabled")
	}

	Boot("this should be logged")
	Scheduler("this should be logged")
	Alpha("this should not be logged")
	Beta("this should not be logged")
	TMS("this should be logged (default enabled)")

	CloseAll()
	CloseAudit()

	logsPath := filepath.Join(tempDir, ".clara", "logs")
	entries, _ := os.ReadDir(logsPath)

	var hasBoot, hasScheduler, hasAlpha, hasBeta bool
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.Contains(name, "boot"):
			hasBoot = true
		case strings.Contains(name, "scheduler"):
			hasScheduler = true
		case strings.Contains(name, "alpha"):
			hasAlpha = true
		case strings.Contains(name, "beta"):
			hasBeta = true
		}
	}

	if !hasBoot {
		t.Error("expected boot log file")
	}
	if !hasScheduler {
		t.Error("expected scheduler log file")
	}
	if hasAlpha {
		t.Error("should not have alpha log file (disabled)")
	}
	if hasBeta {
		t.Error("should not have beta log file (disabled)")
	}
}

// TestTimerLogging exercises the Timer/StartTimer/Stop helper.
func TestTimerLogging(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_timer")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	configDir := filepath.Join(tempDir, ".clara")
	os.MkdirAll(configDir, 0755)
	os.WriteFile(filepath.Join(configDir, "config.json"),
		[]byte(`{"logging": {"level": "debug", "debug_mode": true}}`), 0644)

	resetLoggingState()
	if err := Initialize(tempDir); err != nil {
		t.Fatalf("failed to initialize: %v", err)
	}

	timer := StartTimer(CategoryScheduler, "test-operation")
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Error("timer should have recorded a non-zero duration")
	}

	CloseAll()
	CloseAudit()
}
