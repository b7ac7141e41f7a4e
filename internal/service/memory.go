package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Memory implements core.TaskService entirely in process. It backs
// offline mode and tests. To keep the normalizer honest it reproduces
// the backend's quirks: status updates set the completed boolean but
// omit completionDate.
type Memory struct {
	mu    sync.Mutex
	tasks map[string]models.RawTask
	order []string
	now   func() time.Time
}

// NewMemory creates an empty in-memory task service. now may be nil.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		tasks: make(map[string]models.RawTask),
		now:   now,
	}
}

// ListTasks returns tasks whose relevant date falls inside the query
// window, skipping completed tasks unless asked for them. Insertion
// order is preserved.
func (m *Memory) ListTasks(_ context.Context, query models.TaskQuery) ([]models.RawTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var raws []models.RawTask
	for _, id := range m.order {
		raw, ok := m.tasks[id]
		if !ok {
			continue
		}
		completed := raw.Status == string(models.StatusCompleted) || raw.Completed
		if completed && !query.IncludeCompleted {
			continue
		}
		if !inWindow(raw, query) {
			continue
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// CreateTask stores the task under a fresh uuid and returns the record.
func (m *Memory) CreateTask(_ context.Context, req models.CreateTaskRequest) (models.RawTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	raw := models.RawTask{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		CreatedAt:   m.now().UTC().Format(time.RFC3339),
	}
	m.tasks[id] = raw
	m.order = append(m.order, id)
	return raw, nil
}

// UpdateTask edits the stored record in place.
func (m *Memory) UpdateTask(_ context.Context, id string, req models.UpdateTaskRequest) (models.RawTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.tasks[id]
	if !ok {
		return models.RawTask{}, core.Errorf(core.KindNotFound, "task %s not found", id)
	}
	raw.Title = req.Title
	raw.Description = req.Description
	raw.DueDate = req.DueDate
	m.tasks[id] = raw
	return raw, nil
}

// UpdateTaskStatus flips the stored status. Like the real backend, the
// returned record reports completion only through the boolean and never
// carries a completionDate.
func (m *Memory) UpdateTaskStatus(_ context.Context, id string, status models.TaskStatus) (models.RawTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.tasks[id]
	if !ok {
		return models.RawTask{}, core.Errorf(core.KindNotFound, "task %s not found", id)
	}
	raw.Status = ""
	raw.Completed = status == models.StatusCompleted
	if !raw.Completed {
		raw.Status = string(models.StatusInProgress)
	}
	raw.CompletionDate = ""
	m.tasks[id] = raw
	return raw, nil
}

// DeleteTask removes the record.
func (m *Memory) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return core.Errorf(core.KindNotFound, "task %s not found", id)
	}
	delete(m.tasks, id)
	return nil
}

// inWindow checks the record's relevant date against the query window.
// Records without a date are always included; an empty window matches
// everything.
func inWindow(raw models.RawTask, query models.TaskQuery) bool {
	date := raw.DueDate
	if raw.Status == string(models.StatusCompleted) || raw.Completed {
		if raw.CompletionDate != "" {
			date = raw.CompletionDate
		}
	}
	if date == "" {
		return true
	}
	if query.FromDate != "" && date < query.FromDate {
		return false
	}
	if query.ToDate != "" && date > query.ToDate {
		return false
	}
	return true
}
