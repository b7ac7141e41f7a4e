package observability

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/kvasnytsia/famplan/internal/dates"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Feature: famplan, Property: Far-Future Deadlines Never Alert
// Active tasks due beyond the due-soon window fire no per-task alert,
// no matter how many thresholds are in play.
func TestProperty_FarFutureDeadlinesNeverAlert(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		now := time.Date(2025, time.April, 15, 9, 0, 0, 0, time.UTC)
		dueSoonDays := rapid.IntRange(0, 14).Draw(rt, "dueSoonDays")

		n := rapid.IntRange(1, 10).Draw(rt, "n")
		var tasks []models.Task
		for i := 0; i < n; i++ {
			offset := rapid.IntRange(dueSoonDays+1, dueSoonDays+60).Draw(rt, fmt.Sprintf("offset_%d", i))
			tasks = append(tasks, activeTask(
				fmt.Sprintf("t%d", i),
				dates.KeyFromTime(now.AddDate(0, 0, offset)),
			))
		}

		thresholds := DefaultAlertThresholds()
		thresholds.DueSoonDays = dueSoonDays
		thresholds.MaxActiveTasks = n + 1
		engine := NewAlertEngine(snapshotOf(tasks...), thresholds)

		if alerts := engine.Evaluate(now); len(alerts) != 0 {
			t.Fatalf("alerts = %v, want none", alerts)
		}
	})
}

// Feature: famplan, Property: Every Past-Deadline Task Alerts
// With zero grace days, each active task with a deadline before today
// produces exactly one overdue alert.
func TestProperty_EveryPastDeadlineTaskAlerts(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		now := time.Date(2025, time.April, 15, 9, 0, 0, 0, time.UTC)

		n := rapid.IntRange(1, 10).Draw(rt, "n")
		var tasks []models.Task
		for i := 0; i < n; i++ {
			daysAgo := rapid.IntRange(1, 90).Draw(rt, fmt.Sprintf("daysAgo_%d", i))
			tasks = append(tasks, activeTask(
				fmt.Sprintf("t%d", i),
				dates.KeyFromTime(now.AddDate(0, 0, -daysAgo)),
			))
		}

		thresholds := DefaultAlertThresholds()
		thresholds.MaxActiveTasks = n + 1
		engine := NewAlertEngine(snapshotOf(tasks...), thresholds)

		overdue := 0
		for _, a := range engine.Evaluate(now) {
			if a.Condition == "task_overdue" {
				overdue++
			}
		}
		if overdue != n {
			t.Fatalf("%d overdue alerts for %d overdue tasks", overdue, n)
		}
	})
}
