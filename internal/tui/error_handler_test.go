package tui

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
)

func TestNewErrorHandler(t *testing.T) {
	app := tview.NewApplication()
	statusView := tview.NewTextView()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	eh := NewErrorHandler(app, nil, statusView, logger)

	assert.NotNil(t, eh)
	assert.Equal(t, app, eh.app)
	assert.Nil(t, eh.appRef)
	assert.Equal(t, statusView, eh.statusView)
	assert.Equal(t, logger, eh.logger)
	assert.Empty(t, eh.currentStatus)
	assert.Empty(t, eh.persistentStatus)
}

func TestNewErrorHandler_NilInputs(t *testing.T) {
	eh := NewErrorHandler(nil, nil, nil, nil)

	assert.NotNil(t, eh)
	assert.Nil(t, eh.app)
	assert.Nil(t, eh.statusView)
	assert.Nil(t, eh.logger)
}

func TestErrorHandler_HandleError_NilError(t *testing.T) {
	eh := &ErrorHandler{}

	assert.NotPanics(t, func() {
		eh.HandleError(context.Background(), nil, "test message")
	})
}

func TestErrorHandler_HandleError_ShowsUserMessage(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.HandleError(context.Background(), errors.New("connection reset"), "Cannot reach the server")

	text := statusView.GetText(false)
	assert.Contains(t, text, "Cannot reach the server")
	assert.NotContains(t, text, "connection reset")
}

func TestErrorHandler_HandleError_EmptyUserMessage(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.HandleError(context.Background(), errors.New("test error"), "")

	assert.Contains(t, statusView.GetText(false), "An error occurred")
}

func TestErrorHandler_formatMessage(t *testing.T) {
	eh := &ErrorHandler{}

	testCases := []struct {
		message  string
		level    LogLevel
		wantIcon string
	}{
		{"Test info", LogLevelInfo, "ℹ️"},
		{"Test warning", LogLevelWarning, "⚠️"},
		{"Test error", LogLevelError, "❌"},
		{"Test success", LogLevelSuccess, "✅"},
		{"Test unknown", LogLevel(99), "•"},
	}

	for _, tc := range testCases {
		result := eh.formatMessage(tc.message, tc.level)
		assert.Contains(t, result, tc.wantIcon)
		assert.Contains(t, result, tc.message)
	}
}

func TestErrorHandler_levelToString(t *testing.T) {
	eh := &ErrorHandler{}

	testCases := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelInfo, "INFO"},
		{LogLevelWarning, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelSuccess, "SUCCESS"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, eh.levelToString(tc.level))
	}
}

func TestErrorHandler_ShowMessage_BlankIgnored(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.ShowMessage(context.Background(), "   ", LogLevelInfo)

	assert.Empty(t, strings.TrimSpace(statusView.GetText(false)))
}

func TestErrorHandler_PersistentMessageSurvivesTransient(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.ShowPersistentMessage(context.Background(), "Loading emails…", LogLevelInfo)
	eh.ShowMessage(context.Background(), "Saved", LogLevelSuccess)

	// Transient message takes the display
	assert.Contains(t, statusView.GetText(false), "Saved")

	// Clearing the transient message restores the persistent one
	eh.clearCurrentStatusSafely(eh.currentStatus)
	assert.Contains(t, statusView.GetText(false), "Loading emails…")
}

func TestErrorHandler_ClearDoesNotClobberNewerMessage(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.ShowMessage(context.Background(), "first", LogLevelInfo)
	stale := eh.currentStatus
	eh.ShowMessage(context.Background(), "second", LogLevelInfo)

	// The first message's clear timer must not wipe the second message
	eh.clearCurrentStatusSafely(stale)

	assert.Contains(t, statusView.GetText(false), "second")
}

func TestErrorHandler_ClearPersistentMessage(t *testing.T) {
	statusView := tview.NewTextView()
	eh := &ErrorHandler{statusView: statusView}

	eh.ShowPersistentMessage(context.Background(), "Processing…", LogLevelInfo)
	eh.ClearPersistentMessage()

	assert.NotContains(t, statusView.GetText(false), "Processing…")
}
