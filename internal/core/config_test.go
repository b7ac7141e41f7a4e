package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kvasnytsia/famplan/pkg/models"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, ".famplanrc")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadConfig_Defaults_WhenNoFile(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)

	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIBaseURL != "http://localhost:8080" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("TimeoutSeconds = %d, want 10", cfg.TimeoutSeconds)
	}
	if cfg.NameMin != 1 || cfg.NameMax != 30 || cfg.DescriptionMax != 100 {
		t.Errorf("bounds = %d/%d/%d, want 1/30/100", cfg.NameMin, cfg.NameMax, cfg.DescriptionMax)
	}
	if cfg.DefaultPriority != 3 {
		t.Errorf("DefaultPriority = %d, want 3", cfg.DefaultPriority)
	}
	if cfg.OfflineMode {
		t.Error("OfflineMode = true, want false")
	}
	if cfg.DueSoonDays != 2 || cfg.MaxActiveTasks != 20 {
		t.Errorf("alerts = %d/%d, want 2/20", cfg.DueSoonDays, cfg.MaxActiveTasks)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api:
  base_url: "https://planner.example.com"
  timeout_seconds: 30
tasks:
  name_max: 50
  default_priority: 1
offline_mode: true
alerts:
  due_soon_days: 5
`)

	cm := NewConfigurationManager(dir)
	cfg, err := cm.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIBaseURL != "https://planner.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", cfg.TimeoutSeconds)
	}
	if cfg.NameMax != 50 {
		t.Errorf("NameMax = %d, want 50", cfg.NameMax)
	}
	if cfg.DefaultPriority != 1 {
		t.Errorf("DefaultPriority = %d, want 1", cfg.DefaultPriority)
	}
	if !cfg.OfflineMode {
		t.Error("OfflineMode = false, want true")
	}
	if cfg.DueSoonDays != 5 {
		t.Errorf("DueSoonDays = %d, want 5", cfg.DueSoonDays)
	}
	// Unset keys keep their defaults.
	if cfg.NameMin != 1 {
		t.Errorf("NameMin = %d, want the default 1", cfg.NameMin)
	}
}

func TestValidateConfig_OK(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)
	cfg, _ := cm.LoadConfig()

	if err := cm.ValidateConfig(cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestValidateConfig_CollectsAllProblems(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)

	cfg := &models.Config{
		APIBaseURL:      "",
		TimeoutSeconds:  0,
		NameMin:         0,
		NameMax:         0,
		DefaultPriority: 9,
		DueSoonDays:     -1,
	}

	err := cm.ValidateConfig(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"base_url", "timeout_seconds", "name_min", "default_priority", "due_soon_days"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error does not mention %s: %v", want, err)
		}
	}
}

func TestValidateConfig_OfflineModeAllowsEmptyURL(t *testing.T) {
	dir := t.TempDir()
	cm := NewConfigurationManager(dir)
	cfg, _ := cm.LoadConfig()
	cfg.APIBaseURL = ""
	cfg.OfflineMode = true

	if err := cm.ValidateConfig(cfg); err != nil {
		t.Errorf("offline config should validate without a URL, got %v", err)
	}
}

func TestValidateConfig_Nil(t *testing.T) {
	cm := NewConfigurationManager(t.TempDir())
	if err := cm.ValidateConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}
