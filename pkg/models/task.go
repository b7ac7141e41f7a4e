package models

import "time"

// TaskStatus represents the completion state of a task, using the enum
// values the task service speaks.
type TaskStatus string

const (
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether s is one of the known status values.
func (s TaskStatus) Valid() bool {
	return s == StatusInProgress || s == StatusCompleted
}

// Task is the canonical task entity after normalization. Deadline and
// CompletionDate are day keys in YYYY-MM-DD form (empty when unknown);
// CompletionDate is set if and only if the task is completed, and
// Completed always agrees with Status.
type Task struct {
	ID             string
	Name           string
	Description    string
	Deadline       string
	Status         TaskStatus
	Completed      bool
	CompletionDate string
	CreatedAt      time.Time
}

// DisplayName returns the task name with the presentation-time fallback
// for records the service returned without a title.
func (t Task) DisplayName() string {
	if t.Name == "" {
		return "Untitled Task"
	}
	return t.Name
}

// RawTask is a task record as the service returns it. The shape is
// inconsistent across endpoints: the title may arrive under either key,
// completion may be reported via Status or Completed, and completionDate
// may be missing on completed tasks. The normalizer resolves all of it.
type RawTask struct {
	ID             any    `json:"id"`
	Title          string `json:"title,omitempty"`
	Name           string `json:"name,omitempty"`
	Description    string `json:"description,omitempty"`
	DueDate        string `json:"dueDate,omitempty"`
	Deadline       string `json:"deadline,omitempty"`
	Status         string `json:"status,omitempty"`
	Completed      bool   `json:"completed,omitempty"`
	CompletionDate string `json:"completionDate,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// TaskQuery selects the task window to fetch from the service. Empty
// dates mean the service default (the current month).
type TaskQuery struct {
	FromDate         string
	ToDate           string
	IncludeCompleted bool
}

// CreateTaskInput is what callers supply to create a task. Deadline may
// be any ISO-8601 value; it is truncated to a day before the request.
type CreateTaskInput struct {
	Name        string
	Description string
	Deadline    string
	Priority    int
}

// EditTaskInput carries the editable fields of an existing task.
type EditTaskInput struct {
	Name        string
	Description string
	Deadline    string
}

// CreateTaskRequest is the wire shape of the create endpoint.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	Priority    int    `json:"priority"`
}

// UpdateTaskRequest is the wire shape of the edit endpoint.
type UpdateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}
