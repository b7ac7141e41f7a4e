package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kvasnytsia/famplan/internal/dates"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Normalizer converts raw service records into canonical tasks. All
// ambiguity in the backend contract (status vs completed vs a missing
// completionDate) is resolved here, once; downstream code never
// re-derives completion state from raw fields.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer. now may be nil, in which case the
// wall clock is used; tests inject a fixed clock.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize maps one raw record to the canonical shape. Only a missing
// id is fatal; every other field has a defined fallback.
func (n *Normalizer) Normalize(raw models.RawTask) (models.Task, error) {
	id := rawID(raw.ID)
	if id == "" {
		return models.Task{}, Errorf(KindValidation, "task record has no id")
	}

	name := raw.Title
	if name == "" {
		name = raw.Name
	}

	completed := raw.Status == string(models.StatusCompleted) || raw.Completed
	status := models.StatusInProgress
	if completed {
		status = models.StatusCompleted
	}

	completionDate := ""
	if completed {
		if key, ok := dates.KeyFromISO(raw.CompletionDate); ok {
			completionDate = key
		} else {
			// The service sometimes omits completionDate on completed
			// tasks. Today is a lossy stand-in: the true completion day
			// is gone at this point.
			completionDate = dates.KeyFromTime(n.now())
		}
	}

	deadline := ""
	if key, ok := dates.KeyFromISO(raw.DueDate); ok {
		deadline = key
	} else if key, ok := dates.KeyFromISO(raw.Deadline); ok {
		deadline = key
	}

	var createdAt time.Time
	if raw.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
			createdAt = ts
		}
	}

	return models.Task{
		ID:             id,
		Name:           name,
		Description:    raw.Description,
		Deadline:       deadline,
		Status:         status,
		Completed:      completed,
		CompletionDate: completionDate,
		CreatedAt:      createdAt,
	}, nil
}

// NormalizeAll maps a raw listing into canonical tasks, dropping records
// that fail to normalize. Order is preserved.
func (n *Normalizer) NormalizeAll(raws []models.RawTask) []models.Task {
	tasks := make([]models.Task, 0, len(raws))
	for _, raw := range raws {
		task, err := n.Normalize(raw)
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// rawID renders the service-assigned identifier, which arrives as a JSON
// number or a string depending on the endpoint.
func rawID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case json.Number:
		return id.String()
	default:
		return fmt.Sprint(id)
	}
}
