package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// LogLevel represents the severity of a message
type LogLevel int

const (
	LogLevelInfo LogLevel = iota
	LogLevelWarning
	LogLevelError
	LogLevelSuccess
)

// statusClearDelay is how long a transient status message stays visible
const statusClearDelay = 5 * time.Second

// ErrorHandler provides consistent error handling and user feedback
// through the status bar
type ErrorHandler struct {
	mu         sync.RWMutex
	app        *tview.Application
	appRef     *App // reference to main App for baseline status and theme colors
	statusView *tview.TextView
	logger     *log.Logger

	// Status message state
	currentStatus    string
	persistentStatus string
	statusTimer      *time.Timer
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(app *tview.Application, appRef *App, statusView *tview.TextView, logger *log.Logger) *ErrorHandler {
	return &ErrorHandler{
		app:        app,
		appRef:     appRef,
		statusView: statusView,
		logger:     logger,
	}
}

// HandleError handles an error and shows appropriate user feedback
func (eh *ErrorHandler) HandleError(ctx context.Context, err error, userMsg string) {
	if err == nil {
		return
	}

	if eh.logger != nil {
		eh.logger.Printf("ERROR: %v", err)
	}

	if userMsg == "" {
		userMsg = "An error occurred"
	}

	eh.ShowMessage(ctx, userMsg, LogLevelError)
}

// ShowMessage displays a message to the user
func (eh *ErrorHandler) ShowMessage(ctx context.Context, msg string, level LogLevel) {
	if strings.TrimSpace(msg) == "" {
		return
	}

	formattedMsg := eh.formatMessage(msg, level)

	if eh.logger != nil {
		eh.logger.Printf("%s: %s", eh.levelToString(level), msg)
	}

	// Update UI in the main thread
	if eh.app != nil {
		eh.app.QueueUpdateDraw(func() {
			eh.updateStatusMessage(formattedMsg, level)
		})
	} else {
		eh.updateStatusMessage(formattedMsg, level)
	}
}

// ShowPersistentMessage shows a status message that survives the auto-clear
func (eh *ErrorHandler) ShowPersistentMessage(ctx context.Context, msg string, level LogLevel) {
	formattedMsg := eh.formatMessage(msg, level)

	if eh.app != nil {
		eh.app.QueueUpdateDraw(func() {
			eh.updatePersistentStatus(formattedMsg)
		})
	} else {
		eh.updatePersistentStatus(formattedMsg)
	}
}

// ClearPersistentMessage clears the persistent status message
func (eh *ErrorHandler) ClearPersistentMessage() {
	if eh.app != nil {
		eh.app.QueueUpdateDraw(func() {
			eh.updatePersistentStatus("")
		})
	} else {
		eh.updatePersistentStatus("")
	}
}

// formatMessage formats a message with appropriate icon and styling
func (eh *ErrorHandler) formatMessage(msg string, level LogLevel) string {
	var icon string

	switch level {
	case LogLevelInfo:
		icon = "ℹ️"
	case LogLevelWarning:
		icon = "⚠️"
	case LogLevelError:
		icon = "❌"
	case LogLevelSuccess:
		icon = "✅"
	default:
		icon = "•"
	}

	return fmt.Sprintf("%s %s", icon, msg)
}

// levelToString converts LogLevel to string
func (eh *ErrorHandler) levelToString(level LogLevel) string {
	switch level {
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarning:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelSuccess:
		return "SUCCESS"
	default:
		return "UNKNOWN"
	}
}

// levelToColor converts LogLevel to theme-aware tcell.Color
func (eh *ErrorHandler) levelToColor(level LogLevel) tcell.Color {
	if eh.appRef == nil {
		return tcell.ColorDefault
	}
	switch level {
	case LogLevelWarning:
		return eh.appRef.getStatusColor("warning")
	case LogLevelError:
		return eh.appRef.getStatusColor("error")
	case LogLevelSuccess:
		return eh.appRef.getStatusColor("success")
	default:
		return eh.appRef.getStatusColor("info")
	}
}

// updateStatusMessage updates the status message with auto-clear
func (eh *ErrorHandler) updateStatusMessage(msg string, level LogLevel) {
	if eh.statusView == nil {
		return
	}

	eh.mu.Lock()
	defer eh.mu.Unlock()

	if eh.statusTimer != nil {
		eh.statusTimer.Stop()
	}

	eh.currentStatus = msg
	eh.statusView.SetTextColor(eh.levelToColor(level))
	eh.refreshStatusDisplay()

	// Store the shown message so the timer only clears what it set;
	// a newer message set after the timer started must survive
	currentMsg := msg
	eh.statusTimer = time.AfterFunc(statusClearDelay, func() {
		eh.clearCurrentStatusSafely(currentMsg)
	})
}

// clearCurrentStatusSafely clears the current status message without
// clobbering a newer one
func (eh *ErrorHandler) clearCurrentStatusSafely(expectedMsg string) {
	clearFn := func() {
		eh.mu.Lock()
		defer eh.mu.Unlock()

		if eh.currentStatus == expectedMsg {
			eh.currentStatus = ""
			eh.refreshStatusDisplay()
		}
	}

	if eh.app != nil {
		eh.app.QueueUpdateDraw(clearFn)
	} else {
		clearFn()
	}
}

// updatePersistentStatus updates the persistent status
func (eh *ErrorHandler) updatePersistentStatus(msg string) {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	eh.persistentStatus = msg
	eh.refreshStatusDisplay()
}

// refreshStatusDisplay refreshes the status display
func (eh *ErrorHandler) refreshStatusDisplay() {
	if eh.statusView == nil {
		return
	}

	var displayText string

	if eh.currentStatus != "" {
		displayText = eh.currentStatus
	} else if eh.persistentStatus != "" {
		displayText = eh.persistentStatus
	} else {
		displayText = eh.getBaselineStatus()
	}

	eh.statusView.SetText(displayText)
}

// getBaselineStatus returns the baseline status text
func (eh *ErrorHandler) getBaselineStatus() string {
	if eh.appRef != nil {
		return eh.appRef.statusBaseline()
	}
	return "EmailCat | Press ? for help | Press q to quit"
}

// Convenience methods for common operations

// ShowInfo shows an info message
func (eh *ErrorHandler) ShowInfo(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelInfo)
}

// ShowWarning shows a warning message
func (eh *ErrorHandler) ShowWarning(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelWarning)
}

// ShowError shows an error message
func (eh *ErrorHandler) ShowError(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelError)
}

// ShowSuccess shows a success message
func (eh *ErrorHandler) ShowSuccess(ctx context.Context, msg string) {
	eh.ShowMessage(ctx, msg, LogLevelSuccess)
}

// ShowProgress shows a progress message that stays up until cleared
func (eh *ErrorHandler) ShowProgress(ctx context.Context, msg string) {
	eh.ShowPersistentMessage(ctx, msg, LogLevelInfo)
}

// ClearProgress clears any progress message
func (eh *ErrorHandler) ClearProgress() {
	eh.ClearPersistentMessage()
}
