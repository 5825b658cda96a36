package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anushreedas1/EmailCat/internal/api"
)

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	client *api.Client
}

// NewEmailService creates a new email service
func NewEmailService(client *api.Client) *EmailServiceImpl {
	return &EmailServiceImpl{client: client}
}

func (s *EmailServiceImpl) ListEmails(ctx context.Context) ([]*api.Email, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	return s.client.ListEmails(ctx)
}

func (s *EmailServiceImpl) GetEmail(ctx context.Context, id string) (*api.Email, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("email ID cannot be empty: %w", ErrInvalidEmailID)
	}
	return s.client.GetEmail(ctx, id)
}

// LoadInbox seeds the backend's sample inbox and returns how many emails
// were loaded
func (s *EmailServiceImpl) LoadInbox(ctx context.Context, clearExisting bool) (int, error) {
	if s.client == nil {
		return 0, fmt.Errorf("api client not available")
	}
	resp, err := s.client.LoadInbox(ctx, clearExisting)
	if err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// ProcessEmail categorizes the email and extracts action items via the
// backend's LLM pipeline
func (s *EmailServiceImpl) ProcessEmail(ctx context.Context, id string) (*api.ProcessEmailResponse, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("email ID cannot be empty: %w", ErrInvalidEmailID)
	}
	return s.client.ProcessEmail(ctx, id, true)
}
