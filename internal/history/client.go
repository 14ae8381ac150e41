// Package history is the HTTP client for the remote history/content backend.
// It owns the boundary contracts only; all workflow state stays in the caller.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"postcraft/internal/outline"
)

// ErrNotSuccessful is wrapped into every error produced by a response that
// arrived but reported failure, so callers can tell transport problems from
// backend refusals.
var ErrNotSuccessful = errors.New("backend reported failure")

// Content is the wire shape of auxiliary post content.
type Content struct {
	Titles      []string `json:"titles"`
	Copywriting string   `json:"copywriting"`
	Tags        []string `json:"tags"`
}

// Client talks to the history backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type createRequest struct {
	Topic   string          `json:"topic"`
	Outline outline.Outline `json:"outline"`
	TaskID  string          `json:"task_id,omitempty"`
	Content *Content        `json:"content,omitempty"`
}

type createResponse struct {
	Success  bool   `json:"success"`
	RecordID string `json:"record_id"`
	Error    string `json:"error"`
}

// CreateHistory persists a new history record and returns its identifier.
func (c *Client) CreateHistory(ctx context.Context, topic string, o outline.Outline, taskID string, content *Content) (string, error) {
	var resp createResponse
	err := c.post(ctx, "/api/history", createRequest{
		Topic:   topic,
		Outline: o,
		TaskID:  taskID,
		Content: content,
	}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", backendError("create history", resp.Error)
	}
	if resp.RecordID == "" {
		return "", fmt.Errorf("create history: %w: no record id returned", ErrNotSuccessful)
	}
	return resp.RecordID, nil
}

type updateRequest struct {
	Outline *outline.Outline `json:"outline,omitempty"`
	Content *Content         `json:"content,omitempty"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// UpdateHistory updates an existing record's outline and/or content.
func (c *Client) UpdateHistory(ctx context.Context, recordID string, o *outline.Outline, content *Content) error {
	var resp statusResponse
	err := c.post(ctx, "/api/history/"+recordID, updateRequest{Outline: o, Content: content}, &resp)
	if err != nil {
		return err
	}
	if !resp.Success {
		return backendError("update history", resp.Error)
	}
	return nil
}

type generateContentRequest struct {
	Topic   string `json:"topic"`
	Outline string `json:"outline"`
}

type generateContentResponse struct {
	Success     bool     `json:"success"`
	Titles      []string `json:"titles"`
	Copywriting string   `json:"copywriting"`
	Tags        []string `json:"tags"`
	Error       string   `json:"error"`
}

// GenerateContent asks the backend to produce titles, copywriting and tags
// for the given topic and raw outline text.
func (c *Client) GenerateContent(ctx context.Context, topic, rawOutline string) (*Content, error) {
	var resp generateContentResponse
	err := c.post(ctx, "/api/generate/content", generateContentRequest{Topic: topic, Outline: rawOutline}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, backendError("generate content", resp.Error)
	}
	return &Content{Titles: resp.Titles, Copywriting: resp.Copywriting, Tags: resp.Tags}, nil
}

type generateOutlineRequest struct {
	Topic string `json:"topic"`
}

type generateOutlineResponse struct {
	Success bool   `json:"success"`
	Outline string `json:"outline"`
	Error   string `json:"error"`
}

// GenerateOutline asks the backend to produce raw outline text for a topic.
func (c *Client) GenerateOutline(ctx context.Context, topic string) (string, error) {
	var resp generateOutlineResponse
	err := c.post(ctx, "/api/generate/outline", generateOutlineRequest{Topic: topic}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", backendError("generate outline", resp.Error)
	}
	return resp.Outline, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func backendError(op, msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return fmt.Errorf("%s: %w: %s", op, ErrNotSuccessful, msg)
}
