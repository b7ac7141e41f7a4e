package observability

import (
	"fmt"
	"time"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/internal/dates"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert conditions.
const (
	ConditionOverdue       = "task_overdue"
	ConditionDueSoon       = "task_due_soon"
	ConditionTooManyActive = "too_many_active"
)

// Alert is one triggered condition over the current task snapshot.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	// OverdueGraceDays delays the overdue alert past the deadline.
	OverdueGraceDays int `yaml:"overdue_grace_days"`
	// DueSoonDays is the lookahead window for the due-soon alert.
	DueSoonDays int `yaml:"due_soon_days"`
	// MaxActiveTasks caps the active list before the pile-up alert.
	MaxActiveTasks int `yaml:"max_active_tasks"`
}

// DefaultAlertThresholds returns sensible defaults.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		OverdueGraceDays: 0,
		DueSoonDays:      2,
		MaxActiveTasks:   20,
	}
}

// SnapshotSource supplies the current derived task state. The task
// store implements it.
type SnapshotSource interface {
	Snapshot() core.Snapshot
}

// AlertEngine evaluates alert conditions against the task snapshot.
type AlertEngine interface {
	Evaluate(now time.Time) []Alert
}

type alertEngine struct {
	source     SnapshotSource
	thresholds AlertThresholds
}

// NewAlertEngine creates an AlertEngine over the given snapshot source.
func NewAlertEngine(source SnapshotSource, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{source: source, thresholds: thresholds}
}

// Evaluate checks every condition and returns the triggered alerts.
// Evaluation is pure over the snapshot; it never mutates store state.
func (ae *alertEngine) Evaluate(now time.Time) []Alert {
	snap := ae.source.Snapshot()
	today := dates.KeyFromTime(now)
	graceCutoff := dates.KeyFromTime(now.AddDate(0, 0, -ae.thresholds.OverdueGraceDays))
	dueSoonCutoff := dates.KeyFromTime(now.AddDate(0, 0, ae.thresholds.DueSoonDays))

	var alerts []Alert
	for _, t := range snap.Active {
		if t.Deadline == "" {
			continue
		}
		switch {
		case t.Deadline < graceCutoff:
			alerts = append(alerts, Alert{
				ID:          "overdue-" + t.ID,
				Condition:   ConditionOverdue,
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("%q was due %s and is still open", t.DisplayName(), t.Deadline),
				TriggeredAt: now,
			})
		case t.Deadline >= today && t.Deadline <= dueSoonCutoff:
			alerts = append(alerts, Alert{
				ID:          "due-soon-" + t.ID,
				Condition:   ConditionDueSoon,
				Severity:    SeverityLow,
				Message:     fmt.Sprintf("%q is due %s", t.DisplayName(), t.Deadline),
				TriggeredAt: now,
			})
		}
	}

	if max := ae.thresholds.MaxActiveTasks; max > 0 && len(snap.Active) > max {
		alerts = append(alerts, Alert{
			ID:          "active-pileup",
			Condition:   ConditionTooManyActive,
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("%d active tasks exceed the limit of %d", len(snap.Active), max),
			TriggeredAt: now,
		})
	}

	return alerts
}
