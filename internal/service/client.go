// Package service provides clients for the remote task and auth APIs,
// plus an in-memory task service used for offline mode and tests.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kvasnytsia/famplan/internal/core"
	"github.com/kvasnytsia/famplan/internal/dates"
	"github.com/kvasnytsia/famplan/pkg/models"
)

// TokenSource supplies the bearer token attached to authenticated
// requests. The session store implements it.
type TokenSource interface {
	Token() (string, bool)
}

// Client implements core.TaskService over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	now     func() time.Time
}

// NewClient creates a task service client. tokens may be nil for
// unauthenticated use; now may be nil (wall clock).
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, now func() time.Time) *Client {
	if now == nil {
		now = time.Now
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		now:     now,
	}
}

// ListTasks fetches the raw task records for the query window. An empty
// window defaults to the current month, matching the service contract.
func (c *Client) ListTasks(ctx context.Context, query models.TaskQuery) ([]models.RawTask, error) {
	from, to := query.FromDate, query.ToDate
	if from == "" || to == "" {
		from, to = monthRange(c.now())
	}

	q := url.Values{}
	q.Set("startDate", from)
	q.Set("endDate", to)
	q.Set("includeCompleted", strconv.FormatBool(query.IncludeCompleted))

	var raws []models.RawTask
	if err := c.do(ctx, http.MethodGet, "/api/tasks/calendar", q, nil, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// CreateTask creates a task and returns the record the server assigned.
func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (models.RawTask, error) {
	var raw models.RawTask
	if err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, &raw); err != nil {
		return models.RawTask{}, err
	}
	return raw, nil
}

// UpdateTask edits the title, description, and due date of a task.
func (c *Client) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (models.RawTask, error) {
	q := url.Values{}
	q.Set("taskId", id)

	var raw models.RawTask
	if err := c.do(ctx, http.MethodPut, "/api/tasks", q, req, &raw); err != nil {
		return models.RawTask{}, err
	}
	return raw, nil
}

// UpdateTaskStatus flips a task's status. The response may omit
// completionDate; the normalizer compensates.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) (models.RawTask, error) {
	q := url.Values{}
	q.Set("status", string(status))

	var raw models.RawTask
	path := fmt.Sprintf("/api/tasks/%s/status", url.PathEscape(id))
	if err := c.do(ctx, http.MethodPatch, path, q, nil, &raw); err != nil {
		return models.RawTask{}, err
	}
	return raw, nil
}

// DeleteTask removes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", id)
	return c.do(ctx, http.MethodDelete, "/api/tasks", q, nil, nil)
}

// do performs one request, mapping transport and status failures to the
// typed error kinds the store surfaces.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return core.WrapError(core.KindUnavailable, err, "task service unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return core.Errorf(core.KindNotFound, "%s", apiMessage(resp.Body, "task not found"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return core.Errorf(core.KindServer, "task service returned %d: %s",
			resp.StatusCode, apiMessage(resp.Body, http.StatusText(resp.StatusCode)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return core.WrapError(core.KindServer, err, "decoding task service response")
		}
	}
	return nil
}

// apiMessage extracts the backend's {message} error body, falling back
// to the given default.
func apiMessage(body io.Reader, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}

// monthRange returns the first and last day keys of now's month.
func monthRange(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return dates.KeyFromTime(first), dates.KeyFromTime(last)
}
