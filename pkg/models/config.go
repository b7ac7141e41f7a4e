package models

// Config holds the merged planner configuration loaded from .famplanrc.
type Config struct {
	// API settings for the remote task and auth services.
	APIBaseURL     string
	TimeoutSeconds int

	// Validation bounds applied at the create/edit boundary.
	NameMin        int
	NameMax        int
	DescriptionMax int

	// DefaultPriority is sent on create when the caller does not set one.
	DefaultPriority int

	// OfflineMode swaps the HTTP task service for the in-memory one.
	OfflineMode bool

	// Alert thresholds for the overdue/due-soon checks.
	OverdueGraceDays int
	DueSoonDays      int
	MaxActiveTasks   int

	// SlackWebhookURL, when set, lets 'fpl alerts --notify' push the
	// triggered alerts to a Slack channel.
	SlackWebhookURL string
}
