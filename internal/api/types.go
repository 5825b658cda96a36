package api

import "time"

// Email is a message stored by the EmailCat backend
type Email struct {
	ID          string       `json:"id"`
	Sender      string       `json:"sender"`
	Subject     string       `json:"subject"`
	Body        string       `json:"body"`
	Timestamp   time.Time    `json:"timestamp"`
	Category    string       `json:"category,omitempty"`
	Processed   bool         `json:"processed"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	ActionItems []ActionItem `json:"action_items"`
}

// ActionItem is a task extracted from an email by the backend
type ActionItem struct {
	ID        string    `json:"id"`
	EmailID   string    `json:"email_id"`
	Task      string    `json:"task"`
	Deadline  string    `json:"deadline,omitempty"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// Draft is a server-persisted reply draft tied to one source email.
// UpdatedAt is assigned by the backend on every write; the client compares
// it against local autosave timestamps to detect unsaved newer content.
type Draft struct {
	ID                 string    `json:"id"`
	EmailID            string    `json:"email_id"`
	Subject            string    `json:"subject"`
	Body               string    `json:"body"`
	SuggestedFollowUps []string  `json:"suggested_follow_ups,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// UpdateDraftRequest carries the fields of a draft update; nil fields are
// left unchanged by the backend
type UpdateDraftRequest struct {
	Subject            *string  `json:"subject,omitempty"`
	Body               *string  `json:"body,omitempty"`
	SuggestedFollowUps []string `json:"suggested_follow_ups,omitempty"`
}

// DeleteDraftResponse acknowledges a draft deletion
type DeleteDraftResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// EmailListResponse wraps the email collection endpoint
type EmailListResponse struct {
	Emails []*Email `json:"emails"`
	Count  int      `json:"count"`
}

// LoadInboxResponse reports the result of seeding the inbox
type LoadInboxResponse struct {
	Count  int      `json:"count"`
	Emails []*Email `json:"emails"`
}

// ProcessEmailRequest controls email processing options
type ProcessEmailRequest struct {
	UseLLM bool `json:"use_llm"`
}

// ProcessEmailResponse is the categorization result for one email
type ProcessEmailResponse struct {
	EmailID     string       `json:"email_id"`
	Category    string       `json:"category"`
	ActionItems []ActionItem `json:"action_items"`
	Processed   bool         `json:"processed"`
}

// PromptConfig holds the three LLM prompts the backend uses
type PromptConfig struct {
	ID                   string    `json:"id"`
	CategorizationPrompt string    `json:"categorization_prompt"`
	ActionItemPrompt     string    `json:"action_item_prompt"`
	AutoReplyPrompt      string    `json:"auto_reply_prompt"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UpdatePromptRequest replaces the prompt configuration
type UpdatePromptRequest struct {
	CategorizationPrompt string `json:"categorization_prompt"`
	ActionItemPrompt     string `json:"action_item_prompt"`
	AutoReplyPrompt      string `json:"auto_reply_prompt"`
}

// DefaultPromptsResponse returns the backend's built-in prompts
type DefaultPromptsResponse struct {
	CategorizationPrompt string `json:"categorization_prompt"`
	ActionItemPrompt     string `json:"action_item_prompt"`
	AutoReplyPrompt      string `json:"auto_reply_prompt"`
}

// ChatRequest is one user turn for the inbox agent
type ChatRequest struct {
	Message string                 `json:"message"`
	EmailID string                 `json:"email_id,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// ChatResponse is the agent's reply
type ChatResponse struct {
	Response string                 `json:"response"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GenerateDraftRequest asks the agent to draft a reply for an email
type GenerateDraftRequest struct {
	EmailID      string `json:"email_id"`
	Instructions string `json:"instructions,omitempty"`
}

// GenerateDraftResponse wraps the generated draft
type GenerateDraftResponse struct {
	Draft *Draft `json:"draft"`
}
