package tui

import (
	"github.com/anushreedas1/EmailCat/internal/services"
	"github.com/derailed/tview"
)

// PromptsPanel edits the backend's LLM prompt configuration
type PromptsPanel struct {
	*tview.Flex
	app     *App
	prompts services.PromptService

	form                *tview.Form
	categorizationField *tview.InputField
	actionItemField     *tview.InputField
	autoReplyField      *tview.InputField
}

// NewPromptsPanel creates the prompt configuration panel
func NewPromptsPanel(app *App, prompts services.PromptService) *PromptsPanel {
	p := &PromptsPanel{
		Flex:    tview.NewFlex().SetDirection(tview.FlexRow),
		app:     app,
		prompts: prompts,
	}

	p.categorizationField = tview.NewInputField().SetLabel("Categorization: ")
	p.actionItemField = tview.NewInputField().SetLabel("Action items:   ")
	p.autoReplyField = tview.NewInputField().SetLabel("Auto-reply:     ")

	p.form = tview.NewForm().
		AddFormItem(p.categorizationField).
		AddFormItem(p.actionItemField).
		AddFormItem(p.autoReplyField).
		AddButton("Save", p.save).
		AddButton("Restore defaults", p.restoreDefaults).
		AddButton("Back", p.back)

	p.Flex.AddItem(p.form, 0, 1, true)
	p.Flex.SetBorder(true).
		SetTitle(" ⚙️ AI Prompts ").
		SetTitleAlign(tview.AlignCenter)

	return p
}

// Reload fetches the current prompts into the form
func (p *PromptsPanel) Reload() {
	go func() {
		cfg, err := p.prompts.GetPrompts(p.app.ctx)
		if err != nil {
			p.app.showError(err, "Load prompts")
			return
		}
		p.app.QueueUpdateDraw(func() {
			p.categorizationField.SetText(cfg.CategorizationPrompt)
			p.actionItemField.SetText(cfg.ActionItemPrompt)
			p.autoReplyField.SetText(cfg.AutoReplyPrompt)
		})
	}()
}

func (p *PromptsPanel) save() {
	categorization := p.categorizationField.GetText()
	actionItem := p.actionItemField.GetText()
	autoReply := p.autoReplyField.GetText()

	go func() {
		_, err := p.prompts.UpdatePrompts(p.app.ctx, categorization, actionItem, autoReply)
		if err != nil {
			p.app.showError(err, "Save prompts")
			return
		}
		p.app.errorHandler.ShowSuccess(p.app.ctx, "Prompts saved")
	}()
}

func (p *PromptsPanel) restoreDefaults() {
	go func() {
		cfg, err := p.prompts.RestoreDefaults(p.app.ctx)
		if err != nil {
			p.app.showError(err, "Restore prompts")
			return
		}
		p.app.QueueUpdateDraw(func() {
			p.categorizationField.SetText(cfg.CategorizationPrompt)
			p.actionItemField.SetText(cfg.ActionItemPrompt)
			p.autoReplyField.SetText(cfg.AutoReplyPrompt)
		})
		p.app.errorHandler.ShowSuccess(p.app.ctx, "Default prompts restored")
	}()
}

func (p *PromptsPanel) back() {
	p.app.showMain()
}
