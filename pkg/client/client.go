package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cuemby/nurseduty/pkg/types"
	"github.com/go-resty/resty/v2"
)

// DefaultServer is the API address used when none is given
const DefaultServer = "http://localhost:8000"

const requestTimeout = 10 * time.Second

// ErrNotFound is matched by an APIError carrying a 404
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx reply from the server
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// Is lets errors.Is(err, ErrNotFound) match 404 replies
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type errorBody struct {
	Detail string `json:"detail"`
}

type messageBody struct {
	Message string `json:"message"`
}

// Client talks to a nurseduty server over HTTP
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(requestTimeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).SetError(&errorBody{})
}

// check turns a transport failure or an error status into an error
func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		if body, ok := resp.Error().(*errorBody); ok && body != nil {
			apiErr.Detail = body.Detail
		}
		return apiErr
	}
	return nil
}

func (c *Client) send(method, path string, body any) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	var msg messageBody
	req := c.request(ctx).SetResult(&msg)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if err := check(req.Execute(method, path)); err != nil {
		return "", err
	}
	return msg.Message, nil
}

func (c *Client) get(path string, result any) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return check(c.request(ctx).SetResult(result).Get(path))
}

// GetRoster returns the nurse roster
func (c *Client) GetRoster() (*types.Roster, error) {
	var roster types.Roster
	if err := c.get("/api/nurses", &roster); err != nil {
		return nil, err
	}
	return &roster, nil
}

// UpdateNurse sets a nurse's group and, when active is non-nil, its active flag
func (c *Client) UpdateNurse(id, group int, active *bool) (string, error) {
	body := map[string]any{"group": group}
	if active != nil {
		body["active"] = *active
	}
	return c.send(http.MethodPut, fmt.Sprintf("/api/nurses/%d", id), body)
}

// ResetGroups sets every nurse's group to 0
func (c *Client) ResetGroups() (string, error) {
	return c.send(http.MethodPost, "/api/nurses/reset-groups", nil)
}

// GetFormulas returns all formula schedules
func (c *Client) GetFormulas() ([]types.FormulaSchedule, error) {
	var schedules []types.FormulaSchedule
	if err := c.get("/api/formula", &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// ReplaceFormulas replaces all formula schedules
func (c *Client) ReplaceFormulas(schedules []types.FormulaSchedule) (string, error) {
	if schedules == nil {
		schedules = []types.FormulaSchedule{}
	}
	return c.send(http.MethodPost, "/api/formula", schedules)
}

// GetSettings returns the saved settings
func (c *Client) GetSettings() (*types.Settings, error) {
	var settings types.Settings
	if err := c.get("/api/settings", &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings replaces the settings
func (c *Client) SaveSettings(settings types.Settings) (string, error) {
	return c.send(http.MethodPost, "/api/settings", settings)
}

// GetMonthlySchedule returns the schedule for year and month
func (c *Client) GetMonthlySchedule(year, month int) (*types.MonthlySchedule, error) {
	var schedule types.MonthlySchedule
	if err := c.get(fmt.Sprintf("/api/monthly-schedule/%d/%d", year, month), &schedule); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// SaveMonthlySchedule stores schedule under its year and month
func (c *Client) SaveMonthlySchedule(schedule types.MonthlySchedule) (string, error) {
	return c.send(http.MethodPost, "/api/monthly-schedule", schedule)
}

// ExportMonthlySchedule downloads the month's schedule as an xlsx workbook
func (c *Client) ExportMonthlySchedule(year, month int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := c.request(ctx).
		SetHeader("Accept", "*/*").
		Get(fmt.Sprintf("/api/monthly-schedule/%d/%d/export", year, month))
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}
