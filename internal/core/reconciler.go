package core

import (
	"sort"

	"github.com/kvasnytsia/famplan/pkg/models"
)

// Snapshot is the derived view published after every reconciliation
// pass. All four structures are computed from the same collection in a
// single pass and must be treated as read-only by consumers.
type Snapshot struct {
	// Sorted is the full collection, most recent relevant date first.
	Sorted []models.Task
	// ByDate buckets tasks by day key: completion date for completed
	// tasks, deadline for active ones. A task appears in at most one
	// bucket; tasks without a usable date appear in no bucket.
	ByDate map[string][]models.Task
	// Active and Completed partition Sorted, preserving its order.
	Active    []models.Task
	Completed []models.Task
}

// relevantDate is the date that places a task on the calendar:
// completion date once completed, deadline until then.
func relevantDate(t models.Task) string {
	if t.Status == models.StatusCompleted {
		return t.CompletionDate
	}
	return t.Deadline
}

// Reconcile derives the sorted order, the active/completed partition,
// and the per-day buckets for a task collection. It is pure: the input
// slice is never modified and identical input yields identical output.
// Duplicate ids are preserved as-is; collapsing them is the caller's
// business.
func Reconcile(tasks []models.Task) Snapshot {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	// Day keys compare chronologically as strings, so descending order
	// is a plain string comparison. Tasks with no date sort last, in
	// their original relative order (the sort is stable).
	sort.SliceStable(sorted, func(i, j int) bool {
		return relevantDate(sorted[i]) > relevantDate(sorted[j])
	})

	snap := Snapshot{
		Sorted: sorted,
		ByDate: make(map[string][]models.Task),
	}
	for _, t := range sorted {
		if t.Status == models.StatusCompleted {
			snap.Completed = append(snap.Completed, t)
		} else {
			snap.Active = append(snap.Active, t)
		}
		if key := relevantDate(t); key != "" {
			snap.ByDate[key] = append(snap.ByDate[key], t)
		}
	}
	return snap
}

// TasksOn returns the bucket for a day key, in the same relative order
// as Sorted. The returned slice is shared with the snapshot.
func (s Snapshot) TasksOn(key string) []models.Task {
	return s.ByDate[key]
}
