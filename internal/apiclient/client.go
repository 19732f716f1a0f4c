package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"portal/internal/server"
	"portal/internal/tasks"
)

// ErrAPIUnavailable reports that the daemon's API endpoint could not be
// reached.
var ErrAPIUnavailable = errors.New("portal API unavailable")

// Client talks to a running portal daemon over its HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

// LogQuery carries the filter parameters of a log tail or follow request.
type LogQuery struct {
	Tail      int
	Category  string
	Level     string
	RequestID string
	Query     string
}

// New builds a client for the given bind address ("host:port" or a full
// URL).
func New(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, fmt.Errorf("api address required")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base: base,
		http: &http.Client{},
	}, nil
}

// Health reports whether the daemon answers its health route.
func (c *Client) Health(ctx context.Context) error {
	var payload map[string]string
	if err := c.getJSON(ctx, "/health", nil, &payload); err != nil {
		return err
	}
	if payload["status"] != "ok" {
		return fmt.Errorf("unexpected health status %q", payload["status"])
	}
	return nil
}

// QueryLogs fetches a bounded, filtered tail of the log file.
func (c *Client) QueryLogs(ctx context.Context, q LogQuery) (server.LogsResponse, error) {
	var payload server.LogsResponse
	if err := c.getJSON(ctx, "/api/logs", q.values(), &payload); err != nil {
		return server.LogsResponse{}, err
	}
	return payload, nil
}

// CreateTask submits a new task.
func (c *Client) CreateTask(ctx context.Context, payload tasks.NewTask) (*tasks.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var task tasks.Task
	if err := c.postJSON(ctx, "/api/tasks", bytes.NewReader(body), &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks fetches all tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]*tasks.Task, error) {
	var payload server.TaskListResponse
	if err := c.getJSON(ctx, "/api/tasks", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// GetTask fetches one task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*tasks.Task, error) {
	var task tasks.Task
	if err := c.getJSON(ctx, "/api/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// CompleteTask marks a task done.
func (c *Client) CompleteTask(ctx context.Context, id string) (*tasks.Task, error) {
	var task tasks.Task
	if err := c.postJSON(ctx, "/api/tasks/"+url.PathEscape(id)+"/done", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (q LogQuery) values() url.Values {
	values := url.Values{}
	if q.Tail > 0 {
		values.Set("tail", strconv.Itoa(q.Tail))
	}
	if strings.TrimSpace(q.Category) != "" {
		values.Set("category", q.Category)
	}
	if strings.TrimSpace(q.Level) != "" {
		values.Set("level", q.Level)
	}
	if strings.TrimSpace(q.RequestID) != "" {
		values.Set("request_id", q.RequestID)
	}
	if strings.TrimSpace(q.Query) != "" {
		values.Set("q", q.Query)
	}
	return values
}

func (c *Client) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, values, nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body io.Reader, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, values url.Values, body io.Reader, out any) error {
	endpoint := c.base.ResolveReference(&url.URL{Path: path})
	if values != nil {
		endpoint.RawQuery = values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError carries the server's error payload alongside the status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	message := payload.Error
	if message == "" {
		message = resp.Status
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// IsAPIUnavailable reports whether the error indicates the daemon is not
// listening at all, as opposed to answering with an error.
func IsAPIUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrAPIUnavailable) || errors.As(err, &opErr)
}
