// Package internal provides the App struct that wires all components of
// the famplan system together and initializes the CLI layer.
package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kvasnytsia/famplan/internal/cli"
	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/internal/observability"
	"github.com/kvasnytsia/famplan/internal/service"
	"github.com/kvasnytsia/famplan/internal/storage"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// App holds all service dependencies for the famplan system.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Cfg       *models.Config

	// Storage layer
	Sessions storage.SessionManager

	// Remote service clients
	TaskSvc core.TaskService
	AuthSvc *service.AuthClient

	// Core services
	Norm  *core.Normalizer
	Store core.TaskStore

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of the famplan system.
// basePath is the root directory where all data is stored (typically
// ~/.famplan).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, err
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Cfg = cfg

	// --- Storage layer ---
	app.Sessions = storage.NewSessionManager(basePath)
	if err := app.Sessions.Load(); err != nil {
		return nil, err
	}

	// --- Observability ---
	eventLogPath := filepath.Join(basePath, "events.jsonl")
	app.EventLog, err = observability.NewJSONLEventLog(eventLogPath, nil)
	if err != nil {
		// Non-fatal: run without an event log if it can't be created.
		app.EventLog = nil
	}

	// --- Remote service clients ---
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.OfflineMode {
		app.TaskSvc = service.NewMemory(nil)
	} else {
		app.TaskSvc = service.NewClient(cfg.APIBaseURL, timeout, app.Sessions, nil)
		app.AuthSvc = service.NewAuthClient(cfg.APIBaseURL, timeout)
	}

	// --- Core services ---
	app.Norm = core.NewNormalizer(nil)
	bounds := core.TaskBounds{
		NameMin:        cfg.NameMin,
		NameMax:        cfg.NameMax,
		DescriptionMax: cfg.DescriptionMax,
	}
	var sink core.EventSink
	if app.EventLog != nil {
		sink = app.EventLog
	}
	app.Store = core.NewTaskStore(app.TaskSvc, app.Norm, bounds, cfg.DefaultPriority, sink, nil)

	// --- Alerting and metrics ---
	thresholds := observability.DefaultAlertThresholds()
	thresholds.OverdueGraceDays = cfg.OverdueGraceDays
	if cfg.DueSoonDays > 0 {
		thresholds.DueSoonDays = cfg.DueSoonDays
	}
	if cfg.MaxActiveTasks > 0 {
		thresholds.MaxActiveTasks = cfg.MaxActiveTasks
	}
	app.AlertEngine = observability.NewAlertEngine(app.Store, thresholds)
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.SlackWebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.SlackWebhookURL)
	}

	// --- Wire CLI package-level variables ---
	cli.Store = app.Store
	cli.AuthSvc = app.AuthSvc
	cli.Sessions = app.Sessions
	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier
	cli.Cfg = app.Cfg

	return app, nil
}

// Close releases resources held by the App, such as the event log file
// handle. It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the famplan data directory. It checks the
// FAMPLAN_HOME env var, then falls back to ~/.famplan.
func ResolveBasePath() string {
	if home := os.Getenv("FAMPLAN_HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".famplan")
}
