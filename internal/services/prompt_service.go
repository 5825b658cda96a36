package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anushreedas1/EmailCat/internal/api"
)

// PromptServiceImpl implements PromptService
type PromptServiceImpl struct {
	client *api.Client
}

// NewPromptService creates a new prompt service
func NewPromptService(client *api.Client) *PromptServiceImpl {
	return &PromptServiceImpl{client: client}
}

func (s *PromptServiceImpl) GetPrompts(ctx context.Context) (*api.PromptConfig, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	return s.client.GetPrompts(ctx)
}

func (s *PromptServiceImpl) UpdatePrompts(ctx context.Context, categorization, actionItem, autoReply string) (*api.PromptConfig, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(categorization) == "" || strings.TrimSpace(actionItem) == "" || strings.TrimSpace(autoReply) == "" {
		return nil, fmt.Errorf("prompts cannot be empty: %w", ErrInvalidInput)
	}
	return s.client.UpdatePrompts(ctx, api.UpdatePromptRequest{
		CategorizationPrompt: categorization,
		ActionItemPrompt:     actionItem,
		AutoReplyPrompt:      autoReply,
	})
}

// RestoreDefaults fetches the backend's built-in prompts and saves them as
// the active configuration
func (s *PromptServiceImpl) RestoreDefaults(ctx context.Context) (*api.PromptConfig, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	defaults, err := s.client.GetDefaultPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch default prompts: %w", err)
	}
	return s.client.UpdatePrompts(ctx, api.UpdatePromptRequest{
		CategorizationPrompt: defaults.CategorizationPrompt,
		ActionItemPrompt:     defaults.ActionItemPrompt,
		AutoReplyPrompt:      defaults.AutoReplyPrompt,
	})
}
