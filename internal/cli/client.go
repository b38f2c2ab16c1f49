package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// SubmissionResponse — сабмишен из API.
type SubmissionResponse struct {
	ID         string `json:"id"`
	Student    string `json:"student"`
	Assignment string `json:"assignment"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

// SubmissionVersionResponse — версия сабмишена из API.
type SubmissionVersionResponse struct {
	SubmissionID string         `json:"submission_id"`
	Version      int            `json:"version"`
	Manifest     map[string]any `json:"manifest"`
	CreatedAt    string         `json:"created_at"`
}

// CheckResultResponse — результат одной проверки в отчёте.
type CheckResultResponse struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Details string `json:"details,omitempty"`
}

// ReportResponse — отчёт грейдера из API.
type ReportResponse struct {
	Scenario  string                `json:"scenario"`
	Checks    []CheckResultResponse `json:"checks"`
	Variables map[string]float64    `json:"variables,omitempty"`
}

// GradingResponse — грейдинг из API.
type GradingResponse struct {
	ID             string          `json:"id"`
	SubmissionID   string          `json:"submission_id"`
	Version        int             `json:"version"`
	Scenario       string          `json:"scenario"`
	Status         string          `json:"status"`
	Report         *ReportResponse `json:"report,omitempty"`
	StartedAt      string          `json:"started_at,omitempty"`
	FinishedAt     string          `json:"finished_at,omitempty"`
	Error          string          `json:"error,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedAt      string          `json:"created_at"`
}

// ScheduleResponse — расписание из API.
type ScheduleResponse struct {
	ID          string `json:"id"`
	Assignment  string `json:"assignment"`
	Name        string `json:"name"`
	Scenario    string `json:"scenario"`
	CronExpr    string `json:"cron_expr,omitempty"`
	IntervalSec int    `json:"interval_sec,omitempty"`
	Timezone    string `json:"timezone"`
	Enabled     bool   `json:"enabled"`
	NextDueAt   string `json:"next_due_at,omitempty"`
	LastRunAt   string `json:"last_run_at,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// --- Request types ---

// CreateSubmissionRequest — создание сабмишена.
type CreateSubmissionRequest struct {
	Student    string `json:"student"`
	Assignment string `json:"assignment"`
}

// UpdateSubmissionRequest — обновление сабмишена.
type UpdateSubmissionRequest struct {
	Student  *string `json:"student,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// CreateGradingRequest — создание грейдинга.
type CreateGradingRequest struct {
	Scenario       string `json:"scenario,omitempty"`
	Version        *int   `json:"version,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// CreateScheduleRequest — создание расписания.
type CreateScheduleRequest struct {
	Name        string `json:"name"`
	Scenario    string `json:"scenario"`
	CronExpr    string `json:"cron_expr,omitempty"`
	IntervalSec int    `json:"interval_sec,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// UpdateScheduleRequest — обновление расписания.
type UpdateScheduleRequest struct {
	Name        *string `json:"name,omitempty"`
	Scenario    *string `json:"scenario,omitempty"`
	CronExpr    *string `json:"cron_expr,omitempty"`
	IntervalSec *int    `json:"interval_sec,omitempty"`
	Timezone    *string `json:"timezone,omitempty"`
}

// ListSubmissionsOpts — параметры фильтрации сабмишенов.
type ListSubmissionsOpts struct {
	Assignment string
	Student    string
	Limit      int
}

// ListGradingsOpts — параметры фильтрации грейдингов.
type ListGradingsOpts struct {
	SubmissionID string
	Status       string
	Limit        int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Biome API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Submissions ---

// ListSubmissions возвращает сабмишены с фильтрацией.
func (c *Client) ListSubmissions(opts ListSubmissionsOpts) ([]SubmissionResponse, error) {
	params := url.Values{}
	if opts.Assignment != "" {
		params.Set("assignment", opts.Assignment)
	}
	if opts.Student != "" {
		params.Set("student", opts.Student)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var subs []SubmissionResponse
	err := c.list("/api/v1/submissions", params, &subs)
	return subs, err
}

// CreateSubmission создаёт новый сабмишен.
func (c *Client) CreateSubmission(student, assignment string) (*SubmissionResponse, error) {
	body := CreateSubmissionRequest{Student: student, Assignment: assignment}
	var sub SubmissionResponse
	err := c.post("/api/v1/submissions", body, &sub)
	return &sub, err
}

// GetSubmission возвращает сабмишен по ID.
func (c *Client) GetSubmission(id string) (*SubmissionResponse, error) {
	var sub SubmissionResponse
	err := c.get("/api/v1/submissions/"+id, &sub)
	return &sub, err
}

// UpdateSubmission обновляет сабмишен.
func (c *Client) UpdateSubmission(id string, req UpdateSubmissionRequest) (*SubmissionResponse, error) {
	var sub SubmissionResponse
	err := c.put("/api/v1/submissions/"+id, req, &sub)
	return &sub, err
}

// DeleteSubmission удаляет сабмишен.
func (c *Client) DeleteSubmission(id string) error {
	return c.delete("/api/v1/submissions/" + id)
}

// ListVersions возвращает версии сабмишена.
func (c *Client) ListVersions(submissionID string) ([]SubmissionVersionResponse, error) {
	var versions []SubmissionVersionResponse
	err := c.list("/api/v1/submissions/"+submissionID+"/versions", nil, &versions)
	return versions, err
}

// SubmitVersion создаёт новую версию сабмишена из манифеста.
func (c *Client) SubmitVersion(submissionID string, manifest json.RawMessage) (*SubmissionVersionResponse, error) {
	body := map[string]json.RawMessage{"manifest": manifest}
	var version SubmissionVersionResponse
	err := c.post("/api/v1/submissions/"+submissionID+"/versions", body, &version)
	return &version, err
}

// --- Gradings ---

// ListGradings возвращает грейдинги с фильтрацией.
func (c *Client) ListGradings(opts ListGradingsOpts) ([]GradingResponse, error) {
	params := url.Values{}
	if opts.SubmissionID != "" {
		params.Set("submission_id", opts.SubmissionID)
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var gradings []GradingResponse
	err := c.list("/api/v1/gradings", params, &gradings)
	return gradings, err
}

// CreateGrading создаёт грейдинг для сабмишена.
func (c *Client) CreateGrading(submissionID string, req CreateGradingRequest) (*GradingResponse, error) {
	var grading GradingResponse
	err := c.post("/api/v1/submissions/"+submissionID+"/gradings", req, &grading)
	return &grading, err
}

// GetGrading возвращает грейдинг по ID.
func (c *Client) GetGrading(id string) (*GradingResponse, error) {
	var grading GradingResponse
	err := c.get("/api/v1/gradings/"+id, &grading)
	return &grading, err
}

// GetGradingReport возвращает отчёт грейдинга.
func (c *Client) GetGradingReport(id string) (*ReportResponse, error) {
	var report ReportResponse
	err := c.get("/api/v1/gradings/"+id+"/report", &report)
	return &report, err
}

// --- Schedules ---

// ListSchedules возвращает расписания. Если assignment не пустой — фильтрует.
func (c *Client) ListSchedules(assignment string) ([]ScheduleResponse, error) {
	params := url.Values{}
	if assignment != "" {
		params.Set("assignment", assignment)
	}

	var schedules []ScheduleResponse
	err := c.list("/api/v1/schedules", params, &schedules)
	return schedules, err
}

// CreateSchedule создаёт расписание для задания.
func (c *Client) CreateSchedule(assignment string, req CreateScheduleRequest) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	err := c.post("/api/v1/assignments/"+assignment+"/schedules", req, &schedule)
	return &schedule, err
}

// GetSchedule возвращает расписание по ID.
func (c *Client) GetSchedule(id string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	err := c.get("/api/v1/schedules/"+id, &schedule)
	return &schedule, err
}

// UpdateSchedule обновляет расписание.
func (c *Client) UpdateSchedule(id string, req UpdateScheduleRequest) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	err := c.put("/api/v1/schedules/"+id, req, &schedule)
	return &schedule, err
}

// DeleteSchedule удаляет расписание.
func (c *Client) DeleteSchedule(id string) error {
	return c.delete("/api/v1/schedules/" + id)
}

// EnableSchedule включает расписание.
func (c *Client) EnableSchedule(id string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	body := map[string]bool{"enabled": true}
	err := c.put("/api/v1/schedules/"+id+"/enabled", body, &schedule)
	return &schedule, err
}

// DisableSchedule выключает расписание.
func (c *Client) DisableSchedule(id string) (*ScheduleResponse, error) {
	var schedule ScheduleResponse
	body := map[string]bool{"enabled": false}
	err := c.put("/api/v1/schedules/"+id+"/enabled", body, &schedule)
	return &schedule, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.doData(http.MethodPut, path, body, result)
}

func (c *Client) delete(path string) error {
	resp, err := c.do(http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkError(resp)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
