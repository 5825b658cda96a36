package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmailFixture(t *testing.T, handler http.HandlerFunc) *EmailServiceImpl {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewEmailService(api.NewClient(srv.URL, 0))
}

func TestEmailService_ListEmails(t *testing.T) {
	svc := newEmailFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emails", r.URL.Path)
		_ = json.NewEncoder(w).Encode(api.EmailListResponse{
			Emails: []*api.Email{{ID: "e1", Sender: "alice@example.com", Subject: "hi"}},
			Count:  1,
		})
	})

	emails, err := svc.ListEmails(context.Background())

	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "alice@example.com", emails[0].Sender)
}

func TestEmailService_GetEmail_EmptyID(t *testing.T) {
	svc := NewEmailService(api.NewClient("http://localhost:0", 0))

	_, err := svc.GetEmail(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrInvalidEmailID)
}

func TestEmailService_LoadInbox(t *testing.T) {
	svc := newEmailFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emails/load", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("clear_existing"))
		_ = json.NewEncoder(w).Encode(api.LoadInboxResponse{Count: 5})
	})

	count, err := svc.LoadInbox(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestEmailService_ProcessEmail(t *testing.T) {
	svc := newEmailFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/emails/e1/process", r.URL.Path)
		var req api.ProcessEmailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.UseLLM)
		_ = json.NewEncoder(w).Encode(api.ProcessEmailResponse{
			EmailID:  "e1",
			Category: "To-Do",
			ActionItems: []api.ActionItem{
				{ID: "a1", EmailID: "e1", Task: "reply to alice", Deadline: "friday"},
			},
			Processed: true,
		})
	})

	resp, err := svc.ProcessEmail(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, "To-Do", resp.Category)
	require.Len(t, resp.ActionItems, 1)
	assert.Equal(t, "reply to alice", resp.ActionItems[0].Task)
}

func TestEmailService_NilClient(t *testing.T) {
	svc := NewEmailService(nil)
	ctx := context.Background()

	_, err := svc.ListEmails(ctx)
	assert.Error(t, err)
	_, err = svc.GetEmail(ctx, "e1")
	assert.Error(t, err)
	_, err = svc.LoadInbox(ctx, true)
	assert.Error(t, err)
	_, err = svc.ProcessEmail(ctx, "e1")
	assert.Error(t, err)
}
