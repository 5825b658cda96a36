package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the EmailCat backend REST API. All data operations are
// delegated to the backend; the client only renders and orchestrates.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL. A zero timeout
// means the HTTP client never times out on its own; the backend can be
// slow to cold-start and retries are bounded by count, not wall clock.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// errorBody is the backend's error response shape. detail carries a
// message; errors carries per-field validation messages for 422s.
type errorBody struct {
	Detail string              `json:"detail"`
	Errors map[string][]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: ErrorKindNetwork, Message: "request failed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) *APIError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var parsed errorBody
	_ = json.Unmarshal(raw, &parsed)
	msg := parsed.Detail
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return &APIError{
			Kind:    ErrorKindValidation,
			Status:  resp.StatusCode,
			Message: msg,
			Body:    string(raw),
			Fields:  parsed.Errors,
		}
	}
	return &APIError{
		Kind:    ErrorKindAPI,
		Status:  resp.StatusCode,
		Message: msg,
		Body:    string(raw),
	}
}

// ListEmails returns all emails known to the backend
func (c *Client) ListEmails(ctx context.Context) ([]*Email, error) {
	var out EmailListResponse
	if err := c.do(ctx, http.MethodGet, "/api/emails", nil, &out); err != nil {
		return nil, err
	}
	return out.Emails, nil
}

// GetEmail returns a single email by ID
func (c *Client) GetEmail(ctx context.Context, id string) (*Email, error) {
	var out Email
	if err := c.do(ctx, http.MethodGet, "/api/emails/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoadInbox seeds the backend with its sample inbox
func (c *Client) LoadInbox(ctx context.Context, clearExisting bool) (*LoadInboxResponse, error) {
	var out LoadInboxResponse
	path := fmt.Sprintf("/api/emails/load?clear_existing=%t", clearExisting)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessEmail asks the backend to categorize an email and extract action items
func (c *Client) ProcessEmail(ctx context.Context, id string, useLLM bool) (*ProcessEmailResponse, error) {
	var out ProcessEmailResponse
	req := ProcessEmailRequest{UseLLM: useLLM}
	if err := c.do(ctx, http.MethodPost, "/api/emails/"+url.PathEscape(id)+"/process", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDrafts returns all drafts, optionally filtered by source email
func (c *Client) ListDrafts(ctx context.Context, emailID string) ([]*Draft, error) {
	path := "/api/drafts"
	if emailID != "" {
		path += "?email_id=" + url.QueryEscape(emailID)
	}
	var out []*Draft
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDraft returns a single draft by ID
func (c *Client) GetDraft(ctx context.Context, id string) (*Draft, error) {
	var out Draft
	if err := c.do(ctx, http.MethodGet, "/api/drafts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDraft persists draft edits and returns the full updated record,
// including the server-assigned updated_at
func (c *Client) UpdateDraft(ctx context.Context, id string, req UpdateDraftRequest) (*Draft, error) {
	var out Draft
	if err := c.do(ctx, http.MethodPut, "/api/drafts/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDraft removes a draft from the backend
func (c *Client) DeleteDraft(ctx context.Context, id string) (*DeleteDraftResponse, error) {
	var out DeleteDraftResponse
	if err := c.do(ctx, http.MethodDelete, "/api/drafts/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPrompts returns the active prompt configuration
func (c *Client) GetPrompts(ctx context.Context) (*PromptConfig, error) {
	var out PromptConfig
	if err := c.do(ctx, http.MethodGet, "/api/prompts", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePrompts replaces the prompt configuration
func (c *Client) UpdatePrompts(ctx context.Context, req UpdatePromptRequest) (*PromptConfig, error) {
	var out PromptConfig
	if err := c.do(ctx, http.MethodPut, "/api/prompts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDefaultPrompts returns the backend's built-in prompt texts
func (c *Client) GetDefaultPrompts(ctx context.Context) (*DefaultPromptsResponse, error) {
	var out DefaultPromptsResponse
	if err := c.do(ctx, http.MethodGet, "/api/prompts/defaults", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Chat sends one turn to the inbox agent
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/agent/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDraft asks the agent to produce a reply draft for an email
func (c *Client) GenerateDraft(ctx context.Context, req GenerateDraftRequest) (*Draft, error) {
	var out GenerateDraftResponse
	if err := c.do(ctx, http.MethodPost, "/api/agent/draft", req, &out); err != nil {
		return nil, err
	}
	return out.Draft, nil
}
