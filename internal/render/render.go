// Package render is the boundary to the external image render service. It
// owns job submission and status polling only; workflow templates, prompt
// construction and provider protocol details live on the service side.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"postcraft/internal/outline"
)

// Request describes one page render job.
type Request struct {
	Topic     string           `json:"topic"`
	PageIndex int              `json:"page_index"`
	PageType  outline.PageType `json:"page_type"`
	Content   string           `json:"content"`
}

// Error is a render failure. Retryable tells the caller whether a fresh
// attempt for the same page is worth scheduling.
type Error struct {
	Message   string
	Retryable bool
}

func (e *Error) Error() string {
	return e.Message
}

// Renderer produces one image per page. Implementations report render
// progress (0-100) through onProgress, which may be nil.
type Renderer interface {
	RenderPage(ctx context.Context, req Request, onProgress func(percent int)) (string, error)
}

// Job status values reported by the render service.
const (
	jobQueued  = "queued"
	jobRunning = "running"
	jobDone    = "done"
	jobError   = "error"
)

// JobClient renders pages through the render service's submit/poll API.
type JobClient struct {
	baseURL  string
	clientID string
	http     *http.Client

	// Poll pacing, overridable in tests.
	pollInitial time.Duration
	pollMax     time.Duration
}

// NewJobClient creates a render client for the given service URL.
func NewJobClient(baseURL string, timeout time.Duration) *JobClient {
	return &JobClient{
		baseURL:     baseURL,
		clientID:    uuid.NewString(),
		http:        &http.Client{Timeout: timeout},
		pollInitial: 500 * time.Millisecond,
		pollMax:     3 * time.Second,
	}
}

type submitRequest struct {
	ClientID string `json:"client_id"`
	Request
}

type submitResponse struct {
	JobID string `json:"job_id"`
	Error string `json:"error"`
}

type jobStatus struct {
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	URL       string `json:"url"`
	Error     string `json:"error"`
	Retryable bool   `json:"retryable"`
}

// RenderPage submits a job and polls until it finishes. Submission failures
// are retryable; a job that the service reports as failed carries the
// service's own retryable flag.
func (c *JobClient) RenderPage(ctx context.Context, req Request, onProgress func(percent int)) (string, error) {
	jobID, err := c.submit(ctx, req)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("failed to submit render job: %v", err), Retryable: true}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.pollInitial
	b.MaxInterval = c.pollMax
	b.MaxElapsedTime = 0 // the context bounds the poll loop

	var url string
	poll := func() error {
		status, err := c.status(ctx, jobID)
		if err != nil {
			return err // transient, poll again
		}
		switch status.Status {
		case jobDone:
			url = status.URL
			return nil
		case jobError:
			return backoff.Permanent(&Error{Message: status.Error, Retryable: status.Retryable})
		default:
			if onProgress != nil {
				onProgress(status.Progress)
			}
			return fmt.Errorf("job %s still %s", jobID, status.Status)
		}
	}

	if err := backoff.Retry(poll, backoff.WithContext(b, ctx)); err != nil {
		var rerr *Error
		if errors.As(err, &rerr) {
			return "", rerr
		}
		return "", &Error{Message: fmt.Sprintf("render job %s did not finish: %v", jobID, err), Retryable: true}
	}
	if onProgress != nil {
		onProgress(100)
	}
	return url, nil
}

func (c *JobClient) submit(ctx context.Context, req Request) (string, error) {
	var resp submitResponse
	if err := c.postJSON(ctx, "/render", submitRequest{ClientID: c.clientID, Request: req}, &resp); err != nil {
		return "", err
	}
	if resp.JobID == "" {
		if resp.Error != "" {
			return "", fmt.Errorf("render service refused job: %s", resp.Error)
		}
		return "", fmt.Errorf("render service returned no job id")
	}
	return resp.JobID, nil
}

func (c *JobClient) status(ctx context.Context, jobID string) (*jobStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/render/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d polling job %s", resp.StatusCode, jobID)
	}

	var status jobStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode job status: %w", err)
	}
	return &status, nil
}

func (c *JobClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
