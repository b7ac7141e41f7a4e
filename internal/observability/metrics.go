package observability

import (
	"fmt"
	"time"

	"github.com/kvasnytsia/famplan/pkg/models"
)

// Metrics aggregates planner activity over a time window.
type Metrics struct {
	TasksCreated   int
	TasksCompleted int
	TasksReopened  int
	TasksDeleted   int
	TasksEdited    int
	SignIns        int
	EventCount     int
	OldestEvent    *time.Time
	NewestEvent    *time.Time
}

// MetricsCalculator derives Metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator over the given log.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and tallies them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("calculating metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}
	for _, event := range events {
		switch event.Type {
		case "task.created":
			m.TasksCreated++
		case "task.updated":
			m.TasksEdited++
		case "task.deleted":
			m.TasksDeleted++
		case "task.status_changed":
			newStatus, _ := event.Data["new_status"].(string)
			if newStatus == string(models.StatusCompleted) {
				m.TasksCompleted++
			} else {
				m.TasksReopened++
			}
		case "auth.signed_in":
			m.SignIns++
		}

		t := event.Time
		if m.OldestEvent == nil || t.Before(*m.OldestEvent) {
			oldest := t
			m.OldestEvent = &oldest
		}
		if m.NewestEvent == nil || t.After(*m.NewestEvent) {
			newest := t
			m.NewestEvent = &newest
		}
	}
	return m, nil
}
