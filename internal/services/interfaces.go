package services

import (
	"context"
	"time"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/anushreedas1/EmailCat/internal/recovery"
)

// EmailService handles inbox reads and backend-side processing
type EmailService interface {
	ListEmails(ctx context.Context) ([]*api.Email, error)
	GetEmail(ctx context.Context, id string) (*api.Email, error)
	LoadInbox(ctx context.Context, clearExisting bool) (int, error)
	ProcessEmail(ctx context.Context, id string) (*api.ProcessEmailResponse, error)
}

// DraftService handles draft reads and the durable save/discard flow.
// SaveDraft composes the recovery pre-flight, the retried backend update
// and the post-success snapshot cleanup; callers never touch the
// durability layer around a save themselves.
type DraftService interface {
	ListDrafts(ctx context.Context) ([]*api.Draft, error)
	ListDraftsForEmail(ctx context.Context, emailID string) ([]*api.Draft, error)
	GetDraft(ctx context.Context, id string) (*api.Draft, error)
	SaveDraft(ctx context.Context, id, subject, body string, onRetry func(attempt int, err error)) (*api.Draft, error)
	DeleteDraft(ctx context.Context, id string) error

	// Local durability operations
	MirrorEdit(ctx context.Context, id, subject, body string)
	CheckRecovery(ctx context.Context, id string, serverUpdatedAt time.Time) (recovery.Snapshot, bool)
	DiscardLocal(ctx context.Context, id string)
	PurgeStale(ctx context.Context) int
}

// PromptService handles the backend's LLM prompt configuration
type PromptService interface {
	GetPrompts(ctx context.Context) (*api.PromptConfig, error)
	UpdatePrompts(ctx context.Context, categorization, actionItem, autoReply string) (*api.PromptConfig, error)
	RestoreDefaults(ctx context.Context) (*api.PromptConfig, error)
}

// AgentService handles the inbox agent chat and draft generation
type AgentService interface {
	Chat(ctx context.Context, message, emailID string) (*api.ChatResponse, error)
	GenerateDraft(ctx context.Context, emailID, instructions string) (*api.Draft, error)
}
