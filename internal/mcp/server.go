// Package mcp provides an MCP (Model Context Protocol) server that
// exposes the planner's task operations as tools for AI assistants.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// Server wraps the task store and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	store  core.TaskStore
}

// NewServer creates an MCP server over the given task store.
func NewServer(store core.TaskStore, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{store: store}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "famplan", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listTasksInput struct {
	From             string `json:"from,omitempty" jsonschema:"start of the date window as YYYY-MM-DD (defaults to the current month)"`
	To               string `json:"to,omitempty" jsonschema:"end of the date window as YYYY-MM-DD"`
	IncludeCompleted bool   `json:"include_completed,omitempty" jsonschema:"include completed tasks in the listing"`
}

type taskOutput struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Deadline       string `json:"deadline,omitempty"`
	Status         string `json:"status"`
	Completed      bool   `json:"completed"`
	CompletionDate string `json:"completion_date,omitempty"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type getDayInput struct {
	Date string `json:"date" jsonschema:"required,the day to inspect as YYYY-MM-DD"`
}

type getDayOutput struct {
	Date  string       `json:"date"`
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Name        string `json:"name" jsonschema:"required,the task title (1-30 characters)"`
	Description string `json:"description,omitempty" jsonschema:"optional free text up to 100 characters"`
	Deadline    string `json:"deadline" jsonschema:"required,the due date as YYYY-MM-DD"`
	Priority    int    `json:"priority,omitempty" jsonschema:"priority from 1 (highest) to 5"`
}

type createTaskOutput struct {
	Message string `json:"message"`
}

type updateTaskStatusInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier"`
	Status string `json:"status" jsonschema:"required,the new status (IN_PROGRESS or COMPLETED)"`
}

type updateTaskStatusOutput struct {
	Message string `json:"message"`
}

type deleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"required,the task identifier"`
}

type deleteTaskOutput struct {
	Message string `json:"message"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in a date window, most recent first. Optionally include completed tasks.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_day",
		Description: "Get the tasks placed on one calendar day: active tasks due that day plus tasks completed that day.",
	}, s.handleGetDay)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task with a name, an optional description, and a deadline.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task_status",
		Description: "Mark a task COMPLETED or reopen it as IN_PROGRESS.",
	}, s.handleUpdateTaskStatus)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task by id.",
	}, s.handleDeleteTask)
}

// --- Tool handlers ---

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	snap, err := s.store.Load(ctx, models.TaskQuery{
		FromDate:         input.From,
		ToDate:           input.To,
		IncludeCompleted: input.IncludeCompleted,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(snap.Sorted)),
		Count: len(snap.Sorted),
	}
	for i, t := range snap.Sorted {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleGetDay(_ context.Context, _ *gomcp.CallToolRequest, input getDayInput) (*gomcp.CallToolResult, getDayOutput, error) {
	if input.Date == "" {
		return errorResult("date is required"), getDayOutput{}, nil
	}

	tasks := s.store.Snapshot().TasksOn(input.Date)
	out := getDayOutput{
		Date:  input.Date,
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleCreateTask(ctx context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, createTaskOutput, error) {
	err := s.store.Create(ctx, models.CreateTaskInput{
		Name:        input.Name,
		Description: input.Description,
		Deadline:    input.Deadline,
		Priority:    input.Priority,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), createTaskOutput{}, nil
	}
	return nil, createTaskOutput{Message: fmt.Sprintf("task %q created, due %s", input.Name, input.Deadline)}, nil
}

func (s *Server) handleUpdateTaskStatus(ctx context.Context, _ *gomcp.CallToolRequest, input updateTaskStatusInput) (*gomcp.CallToolResult, updateTaskStatusOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), updateTaskStatusOutput{}, nil
	}

	status := models.TaskStatus(input.Status)
	if !status.Valid() {
		return errorResult(fmt.Sprintf("invalid status %q: must be IN_PROGRESS or COMPLETED", input.Status)), updateTaskStatusOutput{}, nil
	}

	if err := s.store.ChangeStatus(ctx, input.TaskID, status); err != nil {
		return errorResult(fmt.Sprintf("updating task %s status: %s", input.TaskID, err)), updateTaskStatusOutput{}, nil
	}
	return nil, updateTaskStatusOutput{
		Message: fmt.Sprintf("task %s status updated to %s", input.TaskID, input.Status),
	}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input deleteTaskInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	if input.TaskID == "" {
		return errorResult("task_id is required"), deleteTaskOutput{}, nil
	}

	if err := s.store.Delete(ctx, input.TaskID); err != nil {
		return errorResult(fmt.Sprintf("deleting task %s: %s", input.TaskID, err)), deleteTaskOutput{}, nil
	}
	return nil, deleteTaskOutput{Message: fmt.Sprintf("task %s deleted", input.TaskID)}, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:             t.ID,
		Name:           t.DisplayName(),
		Description:    t.Description,
		Deadline:       t.Deadline,
		Status:         string(t.Status),
		Completed:      t.Completed,
		CompletionDate: t.CompletionDate,
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
