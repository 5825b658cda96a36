package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anushreedas1/EmailCat/internal/api"
)

// AgentServiceImpl implements AgentService
type AgentServiceImpl struct {
	client *api.Client
}

// NewAgentService creates a new agent service
func NewAgentService(client *api.Client) *AgentServiceImpl {
	return &AgentServiceImpl{client: client}
}

// Chat sends one user turn to the inbox agent. emailID optionally scopes
// the question to a single email.
func (s *AgentServiceImpl) Chat(ctx context.Context, message, emailID string) (*api.ChatResponse, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message cannot be empty: %w", ErrInvalidInput)
	}
	return s.client.Chat(ctx, api.ChatRequest{Message: message, EmailID: emailID})
}

// GenerateDraft asks the agent to produce a reply draft for an email
func (s *AgentServiceImpl) GenerateDraft(ctx context.Context, emailID, instructions string) (*api.Draft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(emailID) == "" {
		return nil, fmt.Errorf("emailID cannot be empty: %w", ErrInvalidEmailID)
	}
	return s.client.GenerateDraft(ctx, api.GenerateDraftRequest{EmailID: emailID, Instructions: instructions})
}
