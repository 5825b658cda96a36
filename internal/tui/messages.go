package tui

import (
	"fmt"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/derailed/tview"
)

// reloadEmails fetches the inbox and repaints the list
func (a *App) reloadEmails() {
	a.errorHandler.ShowProgress(a.ctx, "Loading emails…")
	defer a.errorHandler.ClearProgress()

	emails, err := a.emailService.ListEmails(a.ctx)
	if err != nil {
		a.showError(err, "Load emails")
		return
	}

	a.QueueUpdateDraw(func() {
		a.mu.Lock()
		a.emails = emails
		a.mu.Unlock()
		a.renderEmailList()
	})
}

// renderEmailList repaints the list table from current state. Must run on
// the UI thread.
func (a *App) renderEmailList() {
	list, ok := a.views["list"].(*tview.Table)
	if !ok {
		return
	}

	a.mu.RLock()
	emails := a.emails
	a.mu.RUnlock()

	list.Clear()
	_, _, width, _ := list.GetInnerRect()
	for i, email := range emails {
		cell := tview.NewTableCell(a.emailRenderer.FormatListRow(email, width)).
			SetExpansion(1).
			SetReference(email.ID)
		if email.Processed {
			cell.SetTextColor(a.currentTheme.Email.ProcessedColor.Color())
		} else {
			cell.SetTextColor(a.currentTheme.Email.UnprocessedColor.Color())
		}
		list.SetCell(i, 0, cell)
	}
	list.SetTitle(fmt.Sprintf(" 📧 Inbox (%d) ", len(emails)))

	list.SetSelectionChangedFunc(func(row, _ int) {
		a.onEmailSelected(row)
	})
	if len(emails) > 0 {
		list.Select(0, 0)
		a.onEmailSelected(0)
	} else {
		a.setDetailText("No emails. Press l to load the inbox.")
	}
}

// onEmailSelected shows the selected email in the detail pane
func (a *App) onEmailSelected(row int) {
	email := a.emailAt(row)
	if email == nil {
		return
	}

	a.mu.Lock()
	a.currentEmailID = email.ID
	a.mu.Unlock()

	a.setDetailText(a.emailRenderer.FormatEmailDetail(email))
}

func (a *App) setDetailText(text string) {
	if tv, ok := a.views["text"].(*tview.TextView); ok {
		tv.SetText(text)
		tv.ScrollToBeginning()
	}
}

func (a *App) emailAt(row int) *api.Email {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if row < 0 || row >= len(a.emails) {
		return nil
	}
	return a.emails[row]
}

func (a *App) selectedEmailID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.currentEmailID
}

// loadInbox asks the backend to seed the inbox with sample data
func (a *App) loadInbox(clearExisting bool) {
	a.errorHandler.ShowProgress(a.ctx, "Loading inbox…")
	defer a.errorHandler.ClearProgress()

	count, err := a.emailService.LoadInbox(a.ctx, clearExisting)
	if err != nil {
		a.showError(err, "Load inbox")
		return
	}

	a.errorHandler.ShowSuccess(a.ctx, fmt.Sprintf("Loaded %d emails", count))
	a.reloadEmails()
}

// processCurrentEmail runs backend categorization on the selected email
func (a *App) processCurrentEmail() {
	id := a.selectedEmailID()
	if id == "" {
		a.errorHandler.ShowWarning(a.ctx, "No email selected")
		return
	}

	a.errorHandler.ShowProgress(a.ctx, "Processing email…")
	defer a.errorHandler.ClearProgress()

	result, err := a.emailService.ProcessEmail(a.ctx, id)
	if err != nil {
		a.showError(err, "Process email")
		return
	}

	a.errorHandler.ShowSuccess(a.ctx, fmt.Sprintf("Categorized as %s (%d action items)",
		result.Category, len(result.ActionItems)))
	a.reloadEmails()
}

// openDraftForCurrentEmail opens the newest reply draft for the selected
// email in the editor
func (a *App) openDraftForCurrentEmail() {
	id := a.selectedEmailID()
	if id == "" {
		a.errorHandler.ShowWarning(a.ctx, "No email selected")
		return
	}

	drafts, err := a.draftService.ListDraftsForEmail(a.ctx, id)
	if err != nil {
		a.showError(err, "Load drafts")
		return
	}
	if len(drafts) == 0 {
		a.errorHandler.ShowInfo(a.ctx, "No draft for this email yet. Press g to generate one.")
		return
	}

	a.QueueUpdateDraw(func() {
		a.editor.Open(drafts[0])
		a.showEditor()
	})
}

// generateDraftForCurrentEmail asks the agent to draft a reply and opens
// it in the editor
func (a *App) generateDraftForCurrentEmail() {
	id := a.selectedEmailID()
	if id == "" {
		a.errorHandler.ShowWarning(a.ctx, "No email selected")
		return
	}

	a.errorHandler.ShowProgress(a.ctx, "Generating draft…")
	defer a.errorHandler.ClearProgress()

	draft, err := a.agentService.GenerateDraft(a.ctx, id, "")
	if err != nil {
		a.showError(err, "Generate draft")
		return
	}

	a.QueueUpdateDraw(func() {
		a.editor.Open(draft)
		a.showEditor()
	})
}
