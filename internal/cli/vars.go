package cli

import (
	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/internal/observability"
	"github.com/kvasnytsia/famplan/internal/service"
	"github.com/kvasnytsia/famplan/internal/storage"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Service instances, set during app initialization in app.go.
var (
	Store       core.TaskStore
	AuthSvc     *service.AuthClient
	Sessions    storage.SessionManager
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
	Cfg         *models.Config
)
