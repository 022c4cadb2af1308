package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fentz26/vitalis/internal/dashboard"
	"github.com/fentz26/vitalis/internal/models"
)

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 10 * time.Second

// PlanTimeout bounds plan generation, which may retry with backoff.
const PlanTimeout = 3 * time.Minute

// Client wraps HTTP calls to the Vitalis API for one user.
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
	planClient *http.Client
}

// NewClient creates a new API client for userID.
func NewClient(baseURL, userID string) *Client {
	return &Client{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{Timeout: DefaultClientTimeout},
		planClient: &http.Client{Timeout: PlanTimeout},
	}
}

func (c *Client) userPath(p string) string {
	return c.baseURL + "/users/" + url.PathEscape(c.userID) + p
}

// ListTasks fetches the user's tasks.
func (c *Client) ListTasks() (*dashboard.TaskList, error) {
	var list dashboard.TaskList
	if err := c.do(c.httpClient, http.MethodGet, c.userPath("/tasks"), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AddTask creates a task.
func (c *Client) AddTask(name string) (*models.Task, error) {
	var task models.Task
	if err := c.do(c.httpClient, http.MethodPost, c.userPath("/tasks"), dashboard.AddTaskRequest{Name: name}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// PatchTask updates fields of one task.
func (c *Client) PatchTask(id string, patch dashboard.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := c.do(c.httpClient, http.MethodPatch, c.userPath("/tasks/"+url.PathEscape(id)), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ClearTasks removes every task.
func (c *Client) ClearTasks() error {
	return c.do(c.httpClient, http.MethodDelete, c.userPath("/tasks"), nil, nil)
}

// Plan generates a plan from the stored health form.
func (c *Client) Plan() ([]models.PlanSection, error) {
	var resp dashboard.PlanResponse
	if err := c.do(c.planClient, http.MethodGet, c.userPath("/plan"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Sections, nil
}

// Health checks that the daemon is up.
func (c *Client) Health() error {
	return c.do(c.httpClient, http.MethodGet, c.baseURL+"/health", nil, nil)
}

func (c *Client) do(hc *http.Client, method, target string, body, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, target, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr dashboard.ErrorResponse
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
