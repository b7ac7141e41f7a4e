package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kvasnytsia/famplan/internal/dates"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// TaskService is the subset of the remote task API the store needs.
// internal/service provides the HTTP implementation; offline mode and
// tests use the in-memory one.
type TaskService interface {
	ListTasks(ctx context.Context, query models.TaskQuery) ([]models.RawTask, error)
	CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.RawTask, error)
	UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (models.RawTask, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (models.RawTask, error)
	DeleteTask(ctx context.Context, id string) error
}

// EventSink receives store lifecycle events. The observability event log
// implements it; defining the interface here keeps core independent of
// the observability package.
type EventSink interface {
	LogEvent(eventType string, data map[string]any) error
}

// TaskBounds configures the validation limits applied at the create/edit
// boundary, before any network call.
type TaskBounds struct {
	NameMin        int
	NameMax        int
	DescriptionMax int
}

// DefaultTaskBounds returns the planner's standard limits.
func DefaultTaskBounds() TaskBounds {
	return TaskBounds{NameMin: 1, NameMax: 30, DescriptionMax: 100}
}

// TaskStore owns the canonical task collection and the derived views the
// UI consumes. Every mutation calls the service first, then re-derives
// all views from the updated collection; derived indices are never
// patched independently of a full Reconcile pass.
type TaskStore interface {
	Load(ctx context.Context, query models.TaskQuery) (Snapshot, error)
	Create(ctx context.Context, input models.CreateTaskInput) error
	Update(ctx context.Context, id string, input models.EditTaskInput) error
	ChangeStatus(ctx context.Context, id string, status models.TaskStatus) error
	Delete(ctx context.Context, id string) error
	Snapshot() Snapshot
	Subscribe(fn func(Snapshot))
}

type taskStore struct {
	svc             TaskService
	norm            *Normalizer
	bounds          TaskBounds
	defaultPriority int
	validate        *validator.Validate
	events          EventSink
	now             func() time.Time

	mu        sync.Mutex
	tasks     []models.Task
	snap      Snapshot
	lastQuery models.TaskQuery
	loadSeq   uint64
	listeners []func(Snapshot)
}

// NewTaskStore creates a TaskStore with all dependencies injected.
// events and now may be nil (disabled event log, wall clock).
func NewTaskStore(svc TaskService, norm *Normalizer, bounds TaskBounds, defaultPriority int, events EventSink, now func() time.Time) TaskStore {
	if now == nil {
		now = time.Now
	}
	if defaultPriority <= 0 {
		defaultPriority = 3
	}
	return &taskStore{
		svc:             svc,
		norm:            norm,
		bounds:          bounds,
		defaultPriority: defaultPriority,
		validate:        validator.New(),
		events:          events,
		now:             now,
		snap:            Snapshot{ByDate: make(map[string][]models.Task)},
	}
}

// Load fetches, normalizes, and reconciles the task window described by
// query, replacing the stored collection. Each call is tagged with a
// monotonic sequence number; a response that is no longer the latest
// issued load is discarded and ErrSuperseded returned, so rapid
// re-loads (e.g. paging through calendar months) can never let a stale
// response overwrite a newer collection.
func (s *taskStore) Load(ctx context.Context, query models.TaskQuery) (Snapshot, error) {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	raws, err := s.svc.ListTasks(ctx, query)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading tasks: %w", err)
	}

	tasks := s.norm.NormalizeAll(raws)

	s.mu.Lock()
	if seq != s.loadSeq {
		s.mu.Unlock()
		return Snapshot{}, ErrSuperseded
	}
	s.tasks = tasks
	s.lastQuery = query
	snap, listeners := s.republishLocked()
	s.mu.Unlock()

	notify(listeners, snap)
	return snap, nil
}

// Create validates the input locally, creates the task on the service,
// and then performs a full refresh. The collection is never updated
// speculatively: the server stays the source of truth for generated ids
// and defaults.
func (s *taskStore) Create(ctx context.Context, input models.CreateTaskInput) error {
	if err := s.validateName(input.Name); err != nil {
		return err
	}
	if err := s.validateDescription(input.Description); err != nil {
		return err
	}
	deadline, ok := dates.KeyFromISO(input.Deadline)
	if !ok {
		return Errorf(KindValidation, "deadline %q is not a valid date", input.Deadline)
	}

	priority := input.Priority
	if priority <= 0 {
		priority = s.defaultPriority
	}
	req := models.CreateTaskRequest{
		Title:       input.Name,
		Description: input.Description,
		DueDate:     deadline,
		Status:      string(models.StatusInProgress),
		Priority:    priority,
	}

	created, err := s.svc.CreateTask(ctx, req)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	s.logEvent("task.created", map[string]any{"task_id": rawID(created.ID), "deadline": deadline})

	return s.refresh(ctx)
}

// Update edits a task's name, description, and deadline on the service,
// then performs a full refresh.
func (s *taskStore) Update(ctx context.Context, id string, input models.EditTaskInput) error {
	if err := s.validateName(input.Name); err != nil {
		return err
	}
	if err := s.validateDescription(input.Description); err != nil {
		return err
	}
	deadline, ok := dates.KeyFromISO(input.Deadline)
	if !ok {
		return Errorf(KindValidation, "deadline %q is not a valid date", input.Deadline)
	}

	req := models.UpdateTaskRequest{
		Title:       input.Name,
		Description: input.Description,
		DueDate:     deadline,
	}
	if _, err := s.svc.UpdateTask(ctx, id, req); err != nil {
		return fmt.Errorf("updating task %s: %w", id, err)
	}
	s.logEvent("task.updated", map[string]any{"task_id": id})

	return s.refresh(ctx)
}

// ChangeStatus flips a task between IN_PROGRESS and COMPLETED. The
// service call happens first; on success the one matching local task is
// patched and the whole collection reconciled. The ByDate index is never
// adjusted in place: moving a task between buckets by hand is exactly
// how derived state drifts from the collection.
func (s *taskStore) ChangeStatus(ctx context.Context, id string, status models.TaskStatus) error {
	if !status.Valid() {
		return Errorf(KindValidation, "status %q is not valid (use IN_PROGRESS or COMPLETED)", status)
	}

	if _, err := s.svc.UpdateTaskStatus(ctx, id, status); err != nil {
		return fmt.Errorf("changing status of task %s: %w", id, err)
	}

	today := dates.KeyFromTime(s.now())

	s.mu.Lock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		s.tasks[i].Status = status
		s.tasks[i].Completed = status == models.StatusCompleted
		if status == models.StatusCompleted {
			s.tasks[i].CompletionDate = today
		} else {
			s.tasks[i].CompletionDate = ""
		}
	}
	snap, listeners := s.republishLocked()
	s.mu.Unlock()

	s.logEvent("task.status_changed", map[string]any{"task_id": id, "new_status": string(status)})
	notify(listeners, snap)
	return nil
}

// Delete removes a task on the service, then drops it from the local
// collection and reconciles.
func (s *taskStore) Delete(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}

	s.mu.Lock()
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	snap, listeners := s.republishLocked()
	s.mu.Unlock()

	s.logEvent("task.deleted", map[string]any{"task_id": id})
	notify(listeners, snap)
	return nil
}

// Snapshot returns the current derived state.
func (s *taskStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to be called with every newly published
// snapshot. Callbacks run outside the store lock.
func (s *taskStore) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// refresh reloads with the last query used. A superseded refresh is not
// an error for the caller: a newer load already replaced the state.
func (s *taskStore) refresh(ctx context.Context) error {
	s.mu.Lock()
	query := s.lastQuery
	s.mu.Unlock()

	if _, err := s.Load(ctx, query); err != nil && !errors.Is(err, ErrSuperseded) {
		return fmt.Errorf("refreshing tasks: %w", err)
	}
	return nil
}

// republishLocked recomputes the snapshot from the collection and
// returns it with a copy of the listeners. Callers must hold mu.
func (s *taskStore) republishLocked() (Snapshot, []func(Snapshot)) {
	s.snap = Reconcile(s.tasks)
	listeners := make([]func(Snapshot), len(s.listeners))
	copy(listeners, s.listeners)
	return s.snap, listeners
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

func (s *taskStore) validateName(name string) error {
	rule := fmt.Sprintf("min=%d,max=%d", s.bounds.NameMin, s.bounds.NameMax)
	if err := s.validate.Var(name, rule); err != nil {
		return Errorf(KindValidation, "task name must be between %d and %d characters", s.bounds.NameMin, s.bounds.NameMax)
	}
	return nil
}

func (s *taskStore) validateDescription(description string) error {
	rule := fmt.Sprintf("max=%d", s.bounds.DescriptionMax)
	if err := s.validate.Var(description, rule); err != nil {
		return Errorf(KindValidation, "task description cannot exceed %d characters", s.bounds.DescriptionMax)
	}
	return nil
}

func (s *taskStore) logEvent(eventType string, data map[string]any) {
	if s.events == nil {
		return
	}
	_ = s.events.LogEvent(eventType, data)
}
