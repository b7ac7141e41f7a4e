// Package core contains the planner's business logic: task
// normalization, reconciliation of derived views, the task store, and
// configuration.
package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kvasnytsia/famplan/pkg/models"
)

// ConfigurationManager loads and validates the planner configuration
// from the .famplanrc file in the base path.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading the YAML configuration file.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .famplanrc relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultConfig returns a Config populated with sensible defaults.
func defaultConfig() *models.Config {
	return &models.Config{
		APIBaseURL:       "http://localhost:8080",
		TimeoutSeconds:   10,
		NameMin:          1,
		NameMax:          30,
		DescriptionMax:   100,
		DefaultPriority:  3,
		OfflineMode:      false,
		OverdueGraceDays: 0,
		DueSoonDays:      2,
		MaxActiveTasks:   20,
	}
}

// LoadConfig reads .famplanrc from the base path. If the file does not
// exist, defaults are returned.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName(".famplanrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("api.base_url", cfg.APIBaseURL)
	v.SetDefault("api.timeout_seconds", cfg.TimeoutSeconds)
	v.SetDefault("tasks.name_min", cfg.NameMin)
	v.SetDefault("tasks.name_max", cfg.NameMax)
	v.SetDefault("tasks.description_max", cfg.DescriptionMax)
	v.SetDefault("tasks.default_priority", cfg.DefaultPriority)
	v.SetDefault("offline_mode", cfg.OfflineMode)
	v.SetDefault("alerts.overdue_grace_days", cfg.OverdueGraceDays)
	v.SetDefault("alerts.due_soon_days", cfg.DueSoonDays)
	v.SetDefault("alerts.max_active_tasks", cfg.MaxActiveTasks)
	v.SetDefault("alerts.slack_webhook_url", cfg.SlackWebhookURL)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .famplanrc: %w", err)
	}

	cfg.APIBaseURL = v.GetString("api.base_url")
	cfg.TimeoutSeconds = v.GetInt("api.timeout_seconds")
	cfg.NameMin = v.GetInt("tasks.name_min")
	cfg.NameMax = v.GetInt("tasks.name_max")
	cfg.DescriptionMax = v.GetInt("tasks.description_max")
	cfg.DefaultPriority = v.GetInt("tasks.default_priority")
	cfg.OfflineMode = v.GetBool("offline_mode")
	cfg.OverdueGraceDays = v.GetInt("alerts.overdue_grace_days")
	cfg.DueSoonDays = v.GetInt("alerts.due_soon_days")
	cfg.MaxActiveTasks = v.GetInt("alerts.max_active_tasks")
	cfg.SlackWebhookURL = v.GetString("alerts.slack_webhook_url")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns
// a clear error message identifying every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if !cfg.OfflineMode && cfg.APIBaseURL == "" {
		errs = append(errs, "api.base_url must not be empty unless offline_mode is set")
	}
	if cfg.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout_seconds must be positive, got %d", cfg.TimeoutSeconds))
	}
	if cfg.NameMin < 1 {
		errs = append(errs, fmt.Sprintf("tasks.name_min must be at least 1, got %d", cfg.NameMin))
	}
	if cfg.NameMax < cfg.NameMin {
		errs = append(errs, fmt.Sprintf("tasks.name_max %d must not be below tasks.name_min %d", cfg.NameMax, cfg.NameMin))
	}
	if cfg.DescriptionMax < 0 {
		errs = append(errs, fmt.Sprintf("tasks.description_max must be non-negative, got %d", cfg.DescriptionMax))
	}
	if cfg.DefaultPriority < 1 || cfg.DefaultPriority > 5 {
		errs = append(errs, fmt.Sprintf("tasks.default_priority %d is invalid, must be between 1 and 5", cfg.DefaultPriority))
	}
	if cfg.DueSoonDays < 0 {
		errs = append(errs, fmt.Sprintf("alerts.due_soon_days must be non-negative, got %d", cfg.DueSoonDays))
	}
	if cfg.MaxActiveTasks < 0 {
		errs = append(errs, fmt.Sprintf("alerts.max_active_tasks must be non-negative, got %d", cfg.MaxActiveTasks))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
