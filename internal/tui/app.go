package tui

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/anushreedas1/EmailCat/internal/api"
	"github.com/anushreedas1/EmailCat/internal/config"
	"github.com/anushreedas1/EmailCat/internal/render"
	"github.com/anushreedas1/EmailCat/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// App encapsulates the terminal UI and the EmailCat backend services
type App struct {
	*tview.Application
	Pages  *tview.Pages
	Config *config.Config

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.RWMutex
	views map[string]tview.Primitive

	// Email renderer
	emailRenderer *render.EmailRenderer

	// State management
	emails         []*api.Email
	currentEmailID string

	// Services
	emailService  services.EmailService
	draftService  services.DraftService
	promptService services.PromptService
	agentService  services.AgentService

	// Panels
	editor  *DraftEditor
	prompts *PromptsPanel
	chat    *ChatPanel

	currentTheme *config.ColorsConfig
	errorHandler *ErrorHandler

	// Debug logging
	logger  *log.Logger
	logFile *os.File
}

// Services bundles the backend-facing dependencies of the UI
type Services struct {
	Email  services.EmailService
	Draft  services.DraftService
	Prompt services.PromptService
	Agent  services.AgentService
}

// NewApp creates the terminal application
func NewApp(cfg *config.Config, svcs Services, theme *config.ColorsConfig) *App {
	ctx, cancel := context.WithCancel(context.Background())

	if theme == nil {
		theme = config.DefaultColors()
	}

	a := &App{
		Application:   tview.NewApplication(),
		Pages:         tview.NewPages(),
		Config:        cfg,
		ctx:           ctx,
		cancel:        cancel,
		views:         make(map[string]tview.Primitive),
		emailRenderer: render.NewEmailRenderer(),
		emailService:  svcs.Email,
		draftService:  svcs.Draft,
		promptService: svcs.Prompt,
		agentService:  svcs.Agent,
		currentTheme:  theme,
	}

	a.initLogger()
	a.initComponents()
	a.initLayout()
	a.bindKeys()

	return a
}

// initLogger opens the configured log file, if any
func (a *App) initLogger() {
	if a.Config == nil || a.Config.LogFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(a.Config.LogFile), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(a.Config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return
	}
	a.logFile = f
	a.logger = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
}

// initComponents creates the main UI components
func (a *App) initComponents() {
	// Email list as a Table to support per-row colors
	list := tview.NewTable().SetSelectable(true, false)
	list.SetBackgroundColor(a.currentTheme.Body.BgColor.Color())
	list.SetBorder(true).
		SetBorderColor(a.currentTheme.Frame.BorderColor.Color()).
		SetBorderAttributes(tcell.AttrBold).
		SetTitle(" 📧 Inbox ").
		SetTitleColor(a.currentTheme.Frame.TitleColor.Color()).
		SetTitleAlign(tview.AlignCenter)

	// Detail pane
	text := tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetScrollable(true)
	text.SetBackgroundColor(a.currentTheme.Body.BgColor.Color())
	text.SetBorder(true).
		SetBorderColor(a.currentTheme.Frame.BorderColor.Color()).
		SetBorderAttributes(tcell.AttrBold).
		SetTitle(" 📄 Email ").
		SetTitleColor(a.currentTheme.Frame.TitleColor.Color()).
		SetTitleAlign(tview.AlignCenter)

	// Status bar
	status := tview.NewTextView().SetDynamicColors(true)
	status.SetBackgroundColor(a.currentTheme.Body.BgColor.Color())
	status.SetTextColor(a.currentTheme.Status.InfoColor.Color())

	a.views["list"] = list
	a.views["text"] = text
	a.views["status"] = status

	a.errorHandler = NewErrorHandler(a.Application, a, status, a.logger)

	a.editor = NewDraftEditor(a, a.draftService)
	a.editor.onClose = func() { a.showMain() }

	a.prompts = NewPromptsPanel(a, a.promptService)
	a.chat = NewChatPanel(a, a.agentService)
}

// initLayout assembles the pages
func (a *App) initLayout() {
	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(a.views["list"], 0, 2, true).
			AddItem(a.views["text"], 0, 3, false), 0, 1, true).
		AddItem(a.views["status"], 1, 0, false)

	a.Pages.AddPage("main", main, true, true)
	a.Pages.AddPage("editor", a.editor, true, false)
	a.Pages.AddPage("prompts", a.prompts, true, false)
	a.Pages.AddPage("chat", a.chat, true, false)

	a.SetRoot(a.Pages, true)
	if status, ok := a.views["status"].(*tview.TextView); ok {
		status.SetText(a.statusBaseline())
	}
}

// bindKeys installs the global key bindings
func (a *App) bindKeys() {
	a.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		page, _ := a.Pages.GetFrontPage()
		switch page {
		case "editor":
			switch event.Key() {
			case tcell.KeyCtrlS:
				go a.editor.saveNow(a.ctx, true)
				return nil
			case tcell.KeyEscape:
				a.editor.requestClose()
				return nil
			}
			return event
		case "prompts", "chat":
			if event.Key() == tcell.KeyEscape {
				a.showMain()
				return nil
			}
			return event
		case "main":
		default:
			return event
		}

		switch event.Rune() {
		case 'q':
			a.Stop()
			return nil
		case 'r':
			go a.reloadEmails()
			return nil
		case 'l':
			go a.loadInbox(false)
			return nil
		case 'L':
			go a.loadInbox(true)
			return nil
		case 'p':
			go a.processCurrentEmail()
			return nil
		case 'd':
			go a.openDraftForCurrentEmail()
			return nil
		case 'g':
			go a.generateDraftForCurrentEmail()
			return nil
		case 'c':
			a.showChat()
			return nil
		case 'P':
			a.showPrompts()
			return nil
		}
		return event
	})
}

// Run starts the terminal UI
func (a *App) Run() error {
	defer a.shutdown()

	go a.reloadEmails()

	return a.Application.Run()
}

func (a *App) shutdown() {
	a.cancel()
	a.editor.Close()
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func (a *App) showMain() {
	a.Pages.SwitchToPage("main")
	a.SetFocus(a.views["list"])
}

func (a *App) showEditor() {
	a.Pages.SwitchToPage("editor")
	a.SetFocus(a.editor)
}

func (a *App) showPrompts() {
	a.prompts.Reload()
	a.Pages.SwitchToPage("prompts")
	a.SetFocus(a.prompts)
}

func (a *App) showChat() {
	a.chat.SetEmailContext(a.selectedEmailID())
	a.Pages.SwitchToPage("chat")
	a.SetFocus(a.chat)
}

// confirmModal shows a yes/no prompt page and reports the choice
func (a *App) confirmModal(text string, done func(confirmed bool)) {
	prompt := tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetTextAlign(tview.AlignCenter)
	prompt.SetText(fmt.Sprintf("\n%s\n\n[::b]y[::-] yes · [::b]n[::-] no", text))
	prompt.SetBorder(true).
		SetBorderColor(a.currentTheme.Status.WarningColor.Color()).
		SetTitle(" Confirm ").
		SetTitleAlign(tview.AlignCenter)

	finish := func(confirmed bool) {
		a.Pages.RemovePage("confirm")
		done(confirmed)
	}

	prompt.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Rune() == 'y' || event.Rune() == 'Y':
			finish(true)
			return nil
		case event.Rune() == 'n' || event.Rune() == 'N' || event.Key() == tcell.KeyEscape:
			finish(false)
			return nil
		}
		return event
	})

	// Centered overlay
	centered := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			AddItem(nil, 0, 1, false).
			AddItem(prompt, 0, 2, true).
			AddItem(nil, 0, 1, false), 7, 0, true).
		AddItem(nil, 0, 1, false)

	a.Pages.AddPage("confirm", centered, true, true)
	a.SetFocus(prompt)
}

// statusBaseline is the status bar text when nothing else is showing
func (a *App) statusBaseline() string {
	return "EmailCat | r refresh · l load · p process · d draft · c chat · P prompts · q quit"
}

// getStatusColor resolves a status color from the active theme
func (a *App) getStatusColor(name string) tcell.Color {
	if a.currentTheme == nil {
		return tcell.ColorDefault
	}
	switch name {
	case "warning":
		return a.currentTheme.Status.WarningColor.Color()
	case "error":
		return a.currentTheme.Status.ErrorColor.Color()
	case "success":
		return a.currentTheme.Status.SuccessColor.Color()
	default:
		return a.currentTheme.Status.InfoColor.Color()
	}
}

// showError surfaces a classified backend error in the status bar
func (a *App) showError(err error, operation string) {
	if err == nil {
		return
	}
	if a.logger != nil {
		a.logger.Printf("ERROR: %s: %v", operation, err)
	}
	a.errorHandler.ShowError(a.ctx, fmt.Sprintf("%s: %s", operation, api.Classify(err).UserMessage()))
}
