package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kvasnytsia/famplan/pkg/models"
)

// --- Fakes ---

type fakeService struct {
	raws       []models.RawTask
	listCalls  int
	listErr    error
	createErr  error
	updateErr  error
	statusErr  error
	deleteErr  error
	lastCreate models.CreateTaskRequest
	lastUpdate models.UpdateTaskRequest
	lastStatus models.TaskStatus

	// onList, when set, runs before ListTasks returns. Tests use it to
	// interleave a competing load.
	onList func(call int)
}

func (f *fakeService) ListTasks(ctx context.Context, query models.TaskQuery) ([]models.RawTask, error) {
	f.listCalls++
	if f.onList != nil {
		f.onList(f.listCalls)
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.RawTask, len(f.raws))
	copy(out, f.raws)
	return out, nil
}

func (f *fakeService) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.RawTask, error) {
	f.lastCreate = req
	if f.createErr != nil {
		return models.RawTask{}, f.createErr
	}
	return models.RawTask{ID: "new", Title: req.Title, DueDate: req.DueDate}, nil
}

func (f *fakeService) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (models.RawTask, error) {
	f.lastUpdate = req
	if f.updateErr != nil {
		return models.RawTask{}, f.updateErr
	}
	return models.RawTask{ID: id, Title: req.Title, DueDate: req.DueDate}, nil
}

func (f *fakeService) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (models.RawTask, error) {
	f.lastStatus = status
	if f.statusErr != nil {
		return models.RawTask{}, f.statusErr
	}
	return models.RawTask{ID: id, Completed: status == models.StatusCompleted}, nil
}

func (f *fakeService) DeleteTask(ctx context.Context, id string) error {
	return f.deleteErr
}

type fakeSink struct {
	types []string
}

func (f *fakeSink) LogEvent(eventType string, data map[string]any) error {
	f.types = append(f.types, eventType)
	return nil
}

func newTestStore(svc *fakeService, sink EventSink) TaskStore {
	norm := NewNormalizer(fixedClock())
	return NewTaskStore(svc, norm, DefaultTaskBounds(), 3, sink, fixedClock())
}

// --- Load ---

func TestTaskStore_Load(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{
		{ID: "a", Title: "first", DueDate: "2025-04-10"},
		{ID: "b", Title: "second", DueDate: "2025-04-05"},
	}}
	store := newTestStore(svc, nil)

	snap, err := store.Load(context.Background(), models.TaskQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(snap.Sorted) != 2 {
		t.Fatalf("got %d tasks, want 2", len(snap.Sorted))
	}
	if snap.Sorted[0].ID != "a" {
		t.Errorf("Sorted[0] = %s, want the later deadline first", snap.Sorted[0].ID)
	}
	if got := store.Snapshot(); len(got.Sorted) != 2 {
		t.Errorf("Snapshot() has %d tasks, want 2", len(got.Sorted))
	}
}

func TestTaskStore_LoadServiceError(t *testing.T) {
	svc := &fakeService{listErr: Errorf(KindUnavailable, "down")}
	store := newTestStore(svc, nil)

	_, err := store.Load(context.Background(), models.TaskQuery{})
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindUnavailable {
		t.Errorf("kind = %v, want unavailable", KindOf(err))
	}
}

// A load that finishes after a newer load has been issued must be
// discarded, leaving the newer load's state in place.
func TestTaskStore_StaleLoadIsDiscarded(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{{ID: "old", Title: "old", DueDate: "2025-04-01"}}}
	store := newTestStore(svc, nil)

	svc.onList = func(call int) {
		if call != 1 {
			return
		}
		// While the first load is in flight, a second one starts and
		// finishes with different data.
		svc.raws = []models.RawTask{{ID: "fresh", Title: "fresh", DueDate: "2025-04-02"}}
		if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
			t.Errorf("competing load failed: %v", err)
		}
	}

	_, err := store.Load(context.Background(), models.TaskQuery{})
	if !errors.Is(err, ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}

	snap := store.Snapshot()
	if len(snap.Sorted) != 1 || snap.Sorted[0].ID != "fresh" {
		t.Errorf("snapshot = %v, want only the fresh task", snap.Sorted)
	}
}

// --- Create ---

func TestTaskStore_Create(t *testing.T) {
	svc := &fakeService{}
	sink := &fakeSink{}
	store := newTestStore(svc, sink)

	err := store.Create(context.Background(), models.CreateTaskInput{
		Name:     "Pay bills",
		Deadline: "2025-04-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if svc.lastCreate.Title != "Pay bills" {
		t.Errorf("service got title %q", svc.lastCreate.Title)
	}
	if svc.lastCreate.Status != string(models.StatusInProgress) {
		t.Errorf("service got status %q, want IN_PROGRESS", svc.lastCreate.Status)
	}
	if svc.lastCreate.Priority != 3 {
		t.Errorf("service got priority %d, want the default 3", svc.lastCreate.Priority)
	}
	if svc.listCalls != 1 {
		t.Errorf("listCalls = %d, want a full refresh after create", svc.listCalls)
	}
	if len(sink.types) == 0 || sink.types[0] != "task.created" {
		t.Errorf("events = %v, want task.created", sink.types)
	}
}

func TestTaskStore_CreateValidation(t *testing.T) {
	svc := &fakeService{}
	store := newTestStore(svc, nil)

	tests := []struct {
		name  string
		input models.CreateTaskInput
	}{
		{"empty name", models.CreateTaskInput{Name: "", Deadline: "2025-04-10"}},
		{"name too long", models.CreateTaskInput{Name: strings.Repeat("x", 31), Deadline: "2025-04-10"}},
		{"description too long", models.CreateTaskInput{Name: "ok", Description: strings.Repeat("y", 101), Deadline: "2025-04-10"}},
		{"bad deadline", models.CreateTaskInput{Name: "ok", Deadline: "tomorrow"}},
		{"missing deadline", models.CreateTaskInput{Name: "ok"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Create(context.Background(), tt.input)
			if !IsValidation(err) {
				t.Fatalf("err = %v, want a validation error", err)
			}
		})
	}

	if svc.lastCreate.Title != "" {
		t.Error("service was called despite validation failure")
	}
}

func TestTaskStore_CreateServiceErrorLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{{ID: "a", Title: "a", DueDate: "2025-04-01"}}}
	store := newTestStore(svc, nil)
	if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.createErr = Errorf(KindServer, "boom")
	err := store.Create(context.Background(), models.CreateTaskInput{Name: "x", Deadline: "2025-04-10"})
	if err == nil {
		t.Fatal("expected error")
	}

	snap := store.Snapshot()
	if len(snap.Sorted) != 1 || snap.Sorted[0].ID != "a" {
		t.Errorf("snapshot changed after failed create: %v", snap.Sorted)
	}
}

// --- Update ---

func TestTaskStore_Update(t *testing.T) {
	svc := &fakeService{}
	store := newTestStore(svc, nil)

	err := store.Update(context.Background(), "a", models.EditTaskInput{
		Name:     "renamed",
		Deadline: "2025-05-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.lastUpdate.Title != "renamed" || svc.lastUpdate.DueDate != "2025-05-01" {
		t.Errorf("service got %+v", svc.lastUpdate)
	}
	if svc.listCalls != 1 {
		t.Errorf("listCalls = %d, want a full refresh after update", svc.listCalls)
	}
}

// --- ChangeStatus ---

func TestTaskStore_ChangeStatusCompletes(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{{ID: "a", Title: "a", DueDate: "2025-04-10"}}}
	sink := &fakeSink{}
	store := newTestStore(svc, sink)
	if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := store.ChangeStatus(context.Background(), "a", models.StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Completed) != 1 {
		t.Fatalf("Completed has %d tasks, want 1", len(snap.Completed))
	}
	task := snap.Completed[0]
	if task.CompletionDate != "2025-04-01" {
		t.Errorf("CompletionDate = %q, want the injected today", task.CompletionDate)
	}
	// The task must have moved from the deadline bucket to today's.
	if len(snap.TasksOn("2025-04-10")) != 0 {
		t.Error("task still bucketed under its deadline")
	}
	if len(snap.TasksOn("2025-04-01")) != 1 {
		t.Error("task not bucketed under its completion date")
	}
	if len(sink.types) == 0 || sink.types[len(sink.types)-1] != "task.status_changed" {
		t.Errorf("events = %v, want task.status_changed", sink.types)
	}
}

func TestTaskStore_ChangeStatusReopens(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{
		{ID: "a", Title: "a", Completed: true, CompletionDate: "2025-03-20", DueDate: "2025-03-15"},
	}}
	store := newTestStore(svc, nil)
	if _, err := store.Load(context.Background(), models.TaskQuery{IncludeCompleted: true}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := store.ChangeStatus(context.Background(), "a", models.StatusInProgress); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Active) != 1 {
		t.Fatalf("Active has %d tasks, want 1", len(snap.Active))
	}
	if snap.Active[0].CompletionDate != "" {
		t.Errorf("CompletionDate = %q, want cleared", snap.Active[0].CompletionDate)
	}
	if len(snap.TasksOn("2025-03-15")) != 1 {
		t.Error("reopened task not bucketed under its deadline again")
	}
}

func TestTaskStore_ChangeStatusInvalid(t *testing.T) {
	svc := &fakeService{}
	store := newTestStore(svc, nil)

	err := store.ChangeStatus(context.Background(), "a", models.TaskStatus("DONE"))
	if !IsValidation(err) {
		t.Fatalf("err = %v, want a validation error", err)
	}
	if svc.lastStatus != "" {
		t.Error("service was called despite invalid status")
	}
}

func TestTaskStore_ChangeStatusServiceErrorLeavesStateUntouched(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{{ID: "a", Title: "a", DueDate: "2025-04-10"}}}
	store := newTestStore(svc, nil)
	if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.statusErr = Errorf(KindUnavailable, "down")
	if err := store.ChangeStatus(context.Background(), "a", models.StatusCompleted); err == nil {
		t.Fatal("expected error")
	}

	snap := store.Snapshot()
	if len(snap.Active) != 1 || snap.Active[0].Completed {
		t.Error("task state changed despite the failed service call")
	}
}

// --- Delete ---

func TestTaskStore_Delete(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{
		{ID: "a", Title: "a", DueDate: "2025-04-10"},
		{ID: "b", Title: "b", DueDate: "2025-04-11"},
	}}
	sink := &fakeSink{}
	store := newTestStore(svc, sink)
	if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := store.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Sorted) != 1 || snap.Sorted[0].ID != "b" {
		t.Errorf("snapshot = %v, want only b", snap.Sorted)
	}
	if len(snap.TasksOn("2025-04-10")) != 0 {
		t.Error("deleted task still bucketed")
	}
	if len(sink.types) == 0 || sink.types[len(sink.types)-1] != "task.deleted" {
		t.Errorf("events = %v, want task.deleted", sink.types)
	}
}

func TestTaskStore_DeleteServiceError(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{{ID: "a", Title: "a", DueDate: "2025-04-10"}}}
	store := newTestStore(svc, nil)
	if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
		t.Fatalf("load: %v", err)
	}

	svc.deleteErr = Errorf(KindNotFound, "gone")
	if err := store.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
	if len(store.Snapshot().Sorted) != 1 {
		t.Error("task removed locally despite the failed service call")
	}
}

// --- Subscribe ---

func TestTaskStore_SubscribeSeesEveryPublish(t *testing.T) {
	svc := &fakeService{raws: []models.RawTask{{ID: "a", Title: "a", DueDate: "2025-04-10"}}}
	store := newTestStore(svc, nil)

	var published []int
	store.Subscribe(func(snap Snapshot) {
		published = append(published, len(snap.Sorted))
	})

	if _, err := store.Load(context.Background(), models.TaskQuery{}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := store.Delete(context.Background(), "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(published) != 2 || published[0] != 1 || published[1] != 0 {
		t.Errorf("published sizes = %v, want [1 0]", published)
	}
}
