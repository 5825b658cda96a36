package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/anushreedas1/EmailCat/internal/recovery"
)

// DraftServiceImpl implements DraftService
type DraftServiceImpl struct {
	client   *api.Client
	recovery *recovery.Store
	retry    api.RetryOptions
}

// NewDraftService creates a draft service. retryOpts zero values use the
// package defaults (3 retries, 1s initial delay, 10s cap).
func NewDraftService(client *api.Client, recoveryStore *recovery.Store, retryOpts api.RetryOptions) *DraftServiceImpl {
	return &DraftServiceImpl{
		client:   client,
		recovery: recoveryStore,
		retry:    retryOpts,
	}
}

func (s *DraftServiceImpl) ListDrafts(ctx context.Context) ([]*api.Draft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	return s.client.ListDrafts(ctx, "")
}

func (s *DraftServiceImpl) ListDraftsForEmail(ctx context.Context, emailID string) ([]*api.Draft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(emailID) == "" {
		return nil, fmt.Errorf("emailID cannot be empty: %w", ErrInvalidEmailID)
	}
	return s.client.ListDrafts(ctx, emailID)
}

func (s *DraftServiceImpl) GetDraft(ctx context.Context, id string) (*api.Draft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("draft ID cannot be empty: %w", ErrInvalidDraftID)
	}
	return s.client.GetDraft(ctx, id)
}

// SaveDraft persists the edited fields with at-least-once durability:
// the recovery snapshot is written before the first attempt, the update is
// retried on transient failures, and both local snapshots are cleared only
// after the backend confirms the write. On failure the snapshots stay put
// so a later mount can re-offer the content.
func (s *DraftServiceImpl) SaveDraft(ctx context.Context, id, subject, body string, onRetry func(int, error)) (*api.Draft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("draft ID cannot be empty: %w", ErrInvalidDraftID)
	}

	if s.recovery != nil {
		s.recovery.SaveRecoverySnapshot(ctx, id, subject, body)
	}

	opts := s.retry
	opts.OnRetry = onRetry

	var saved *api.Draft
	err := api.Retry(ctx, func(ctx context.Context) error {
		draft, err := s.client.UpdateDraft(ctx, id, api.UpdateDraftRequest{
			Subject: &subject,
			Body:    &body,
		})
		if err != nil {
			return err
		}
		saved = draft
		return nil
	}, opts)
	if err != nil {
		return nil, err
	}

	if s.recovery != nil {
		s.recovery.ClearRecoverySnapshot(ctx, id)
		s.recovery.ClearAutoSave(ctx, id)
	}
	return saved, nil
}

// DeleteDraft removes the draft from the backend and drops any local
// snapshots for it
func (s *DraftServiceImpl) DeleteDraft(ctx context.Context, id string) error {
	if s.client == nil {
		return fmt.Errorf("api client not available")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("draft ID cannot be empty: %w", ErrInvalidDraftID)
	}
	if _, err := s.client.DeleteDraft(ctx, id); err != nil {
		return err
	}
	s.DiscardLocal(ctx, id)
	return nil
}

// MirrorEdit writes the autosave snapshot; called on every keystroke
func (s *DraftServiceImpl) MirrorEdit(ctx context.Context, id, subject, body string) {
	if s.recovery == nil {
		return
	}
	s.recovery.AutoSave(ctx, id, subject, body)
}

// CheckRecovery returns the autosave snapshot when it is strictly newer
// than the server's updated_at; the editor uses it to offer recovery on
// mount
func (s *DraftServiceImpl) CheckRecovery(ctx context.Context, id string, serverUpdatedAt time.Time) (recovery.Snapshot, bool) {
	if s.recovery == nil {
		return recovery.Snapshot{}, false
	}
	if !s.recovery.IsLocalNewerThanServer(ctx, id, serverUpdatedAt) {
		return recovery.Snapshot{}, false
	}
	return s.recovery.ReadAutoSave(ctx, id)
}

// DiscardLocal clears both snapshot keyspaces for the draft
func (s *DraftServiceImpl) DiscardLocal(ctx context.Context, id string) {
	if s.recovery == nil {
		return
	}
	s.recovery.ClearRecoverySnapshot(ctx, id)
	s.recovery.ClearAutoSave(ctx, id)
}

// PurgeStale garbage-collects recovery snapshots older than the retention
// window; run once per session on startup
func (s *DraftServiceImpl) PurgeStale(ctx context.Context) int {
	if s.recovery == nil {
		return 0
	}
	return s.recovery.PurgeOlderThan(ctx, recovery.MaxSnapshotAge)
}
