package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/anushreedas1/EmailCat/internal/recovery"
	"github.com/anushreedas1/EmailCat/internal/services"
	"github.com/derailed/tview"
)

// EditorState tracks what the draft editor is doing
type EditorState int

const (
	// StateViewing means the buffer matches the last known server content
	StateViewing EditorState = iota
	// StateEditing means there are unsaved local edits
	StateEditing
	// StateSaving means a save is in flight; further saves are blocked
	StateSaving
)

// String returns the state name shown in the editor title
func (s EditorState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// defaultIdleDelay is the quiet period after the last keystroke before an
// automatic save fires
const defaultIdleDelay = 30 * time.Second

// DraftEditor is the draft editing panel. Every keystroke mirrors the
// buffer into the local store; a save is attempted automatically after an
// idle period and on demand with Ctrl+S. While a save is in flight the
// editor is in StateSaving and re-entry is blocked.
type DraftEditor struct {
	*tview.Flex
	app *App

	subjectField *tview.InputField
	bodyEditor   *TextEditor
	followUps    *tview.TextView

	drafts services.DraftService

	// notify reports user-visible editor events; the app routes it to the
	// status bar
	notify func(msg string, level LogLevel)
	// confirm asks a yes/no question; nil means proceed without asking
	confirm func(msg string, done func(confirmed bool))
	// onClose is invoked when the editor is dismissed
	onClose func()

	mu        sync.Mutex
	state     EditorState
	draft     *api.Draft
	editSeq   uint64 // bumped on every edit, detects typing during a save
	idleDelay time.Duration
	idleTimer *time.Timer
	// loading suppresses change callbacks while text is set programmatically
	loading bool
	// pendingSubject/pendingBody hold the buffer text as of the last edit,
	// captured on the event loop so the save goroutine never reads widgets
	pendingSubject string
	pendingBody    string
}

// NewDraftEditor creates the editor panel wired to the draft service
func NewDraftEditor(app *App, drafts services.DraftService) *DraftEditor {
	e := &DraftEditor{
		Flex:      tview.NewFlex().SetDirection(tview.FlexRow),
		app:       app,
		drafts:    drafts,
		idleDelay: defaultIdleDelay,
		notify:    func(string, LogLevel) {},
	}
	if app != nil {
		e.idleDelay = app.Config.GetAutoSaveIdle()
		e.notify = func(msg string, level LogLevel) {
			app.errorHandler.ShowMessage(app.ctx, msg, level)
		}
		e.confirm = app.confirmModal
	}

	e.subjectField = tview.NewInputField().SetLabel("Subject: ")
	e.subjectField.SetChangedFunc(func(string) { e.onEdit() })

	e.bodyEditor = NewTextEditor()
	e.bodyEditor.SetChangedFunc(func(string) { e.onEdit() })

	e.followUps = tview.NewTextView().SetDynamicColors(true).SetWrap(true)

	e.Flex.AddItem(e.subjectField, 1, 0, false)
	e.Flex.AddItem(e.bodyEditor, 0, 1, true)
	e.Flex.AddItem(e.followUps, 0, 0, false)
	e.Flex.SetBorder(true)

	e.applyTitle()
	return e
}

func (e *DraftEditor) ctx() context.Context {
	if e.app != nil {
		return e.app.ctx
	}
	return context.Background()
}

// Open loads a draft into the editor and checks for recoverable local
// edits that are newer than the server copy
func (e *DraftEditor) Open(draft *api.Draft) {
	e.mu.Lock()
	e.draft = draft
	e.state = StateViewing
	e.stopIdleTimerLocked()
	e.mu.Unlock()

	e.setBuffer(draft.Subject, draft.Body)
	e.renderFollowUps(draft.SuggestedFollowUps)
	e.applyTitle()

	if snap, ok := e.drafts.CheckRecovery(e.ctx(), draft.ID, draft.UpdatedAt); ok {
		e.offerRecovery(snap)
	}
}

// offerRecovery asks whether locally saved newer content should replace
// the server copy in the buffer
func (e *DraftEditor) offerRecovery(snap recovery.Snapshot) {
	apply := func() {
		e.setBuffer(snap.Subject, snap.Body)
		e.mu.Lock()
		e.state = StateEditing
		e.editSeq++
		e.pendingSubject = snap.Subject
		e.pendingBody = snap.Body
		e.scheduleIdleSaveLocked()
		e.mu.Unlock()
		e.applyTitle()
		e.notify("Recovered unsaved local changes", LogLevelInfo)
	}

	if e.confirm != nil {
		e.confirm("Unsaved local changes found. Recover them?", func(confirmed bool) {
			if confirmed {
				apply()
				return
			}
			if d := e.Draft(); d != nil {
				e.drafts.DiscardLocal(e.ctx(), d.ID)
			}
		})
		return
	}
	apply()
}

// Close tears the editor down, stopping the idle timer
func (e *DraftEditor) Close() {
	e.mu.Lock()
	e.stopIdleTimerLocked()
	e.draft = nil
	e.state = StateViewing
	e.mu.Unlock()
}

// State returns the current editor state
func (e *DraftEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Draft returns the draft being edited, or nil
func (e *DraftEditor) Draft() *api.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// setBuffer loads text into the fields without triggering edit handling
func (e *DraftEditor) setBuffer(subject, body string) {
	e.mu.Lock()
	e.loading = true
	e.mu.Unlock()

	e.subjectField.SetText(subject)
	e.bodyEditor.SetText(body)

	e.mu.Lock()
	e.loading = false
	e.mu.Unlock()
}

func (e *DraftEditor) renderFollowUps(followUps []string) {
	if len(followUps) == 0 {
		e.Flex.ResizeItem(e.followUps, 0, 0)
		e.followUps.SetText("")
		return
	}
	var b strings.Builder
	b.WriteString("[::b]Suggested follow-ups[::-]\n")
	for _, f := range followUps {
		fmt.Fprintf(&b, "  • %s\n", f)
	}
	e.followUps.SetText(b.String())
	e.Flex.ResizeItem(e.followUps, len(followUps)+2, 0)
}

// onEdit handles one buffer change: mirror it locally, enter StateEditing
// and push the idle save out
func (e *DraftEditor) onEdit() {
	subject := e.subjectField.GetText()
	body := e.bodyEditor.GetText()

	e.mu.Lock()
	if e.loading || e.draft == nil {
		e.mu.Unlock()
		return
	}
	e.editSeq++
	if e.state != StateSaving {
		e.state = StateEditing
	}
	e.pendingSubject = subject
	e.pendingBody = body
	id := e.draft.ID
	e.scheduleIdleSaveLocked()
	e.mu.Unlock()

	e.drafts.MirrorEdit(e.ctx(), id, subject, body)
	e.applyTitle()
}

// scheduleIdleSaveLocked cancels any pending idle save and schedules a new
// one. Callers hold e.mu.
func (e *DraftEditor) scheduleIdleSaveLocked() {
	if e.idleTimer != nil {
		e.idleTimer.Stop()
	}
	e.idleTimer = time.AfterFunc(e.idleDelay, func() {
		e.saveNow(e.ctx(), false)
	})
}

func (e *DraftEditor) stopIdleTimerLocked() {
	if e.idleTimer != nil {
		e.idleTimer.Stop()
		e.idleTimer = nil
	}
}

// saveNow runs one save attempt through the draft service. Manual saves
// announce success; automatic saves are silent unless they fail. A save
// already in flight makes this a no-op, as does a save with nothing
// edited.
func (e *DraftEditor) saveNow(ctx context.Context, manual bool) {
	e.mu.Lock()
	if e.draft == nil || e.state == StateSaving {
		e.mu.Unlock()
		return
	}
	if e.state != StateEditing {
		e.mu.Unlock()
		if manual {
			e.notify("No changes to save", LogLevelInfo)
		}
		return
	}
	e.state = StateSaving
	e.stopIdleTimerLocked()
	id := e.draft.ID
	seqAtSave := e.editSeq
	subject := e.pendingSubject
	body := e.pendingBody
	e.mu.Unlock()

	e.applyTitle()
	e.setInputsEnabled(false)
	defer e.setInputsEnabled(true)

	saved, err := e.drafts.SaveDraft(ctx, id, subject, body, func(attempt int, _ error) {
		e.notify(fmt.Sprintf("Retrying save (%d/3)…", attempt), LogLevelWarning)
	})

	e.mu.Lock()
	if err != nil {
		// Edits stay local; the pre-flight snapshot already holds them
		if e.editSeq > seqAtSave {
			e.scheduleIdleSaveLocked()
		}
		e.state = StateEditing
		e.mu.Unlock()
		e.applyTitle()
		e.notify(api.Classify(err).UserMessage(), LogLevelError)
		e.notify("Your changes are saved locally", LogLevelWarning)
		return
	}

	if e.draft != nil && e.draft.ID == id {
		e.draft = saved
	}
	if e.editSeq > seqAtSave {
		// Typed during the save; those keystrokes are still unsaved
		e.state = StateEditing
		e.scheduleIdleSaveLocked()
	} else {
		e.state = StateViewing
	}
	e.mu.Unlock()

	e.applyTitle()
	if manual {
		e.notify("Draft saved", LogLevelSuccess)
	}
}

// setInputsEnabled freezes or unfreezes the fields while a save is in
// flight
func (e *DraftEditor) setInputsEnabled(enabled bool) {
	update := func() {
		e.bodyEditor.SetEditable(enabled)
		if enabled {
			e.subjectField.SetAcceptanceFunc(nil)
		} else {
			e.subjectField.SetAcceptanceFunc(func(string, rune) bool { return false })
		}
	}
	if e.app != nil {
		e.app.QueueUpdateDraw(update)
		return
	}
	update()
}

// requestClose dismisses the editor, confirming first when edits are
// unsaved. Local snapshots are cleared either way.
func (e *DraftEditor) requestClose() {
	if e.State() == StateEditing && e.confirm != nil {
		e.confirm("Discard unsaved changes?", func(confirmed bool) {
			if confirmed {
				e.discardAndClose()
			}
		})
		return
	}
	e.discardAndClose()
}

func (e *DraftEditor) discardAndClose() {
	if d := e.Draft(); d != nil {
		e.drafts.DiscardLocal(e.ctx(), d.ID)
	}
	e.dismiss()
}

func (e *DraftEditor) dismiss() {
	e.Close()
	if e.onClose != nil {
		e.onClose()
	}
}

// applyTitle reflects the draft and state in the panel border
func (e *DraftEditor) applyTitle() {
	e.mu.Lock()
	state := e.state
	var id string
	if e.draft != nil {
		id = e.draft.ID
	}
	e.mu.Unlock()

	if id == "" {
		e.Flex.SetTitle(" ✏️ Draft ")
		return
	}
	e.Flex.SetTitle(fmt.Sprintf(" ✏️ Draft %s [%s] ", shortID(id), state))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
