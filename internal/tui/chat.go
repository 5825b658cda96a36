package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/anushreedas1/EmailCat/internal/services"
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// ChatPanel is the inbox agent conversation view
type ChatPanel struct {
	*tview.Flex
	app   *App
	agent services.AgentService

	history *tview.TextView
	input   *tview.InputField

	mu       sync.Mutex
	emailID  string
	inFlight bool
}

// NewChatPanel creates the agent chat panel
func NewChatPanel(app *App, agent services.AgentService) *ChatPanel {
	c := &ChatPanel{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		app:   app,
		agent: agent,
	}

	c.history = tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetScrollable(true)
	c.history.SetText("Ask the inbox agent anything about your emails.\n")

	c.input = tview.NewInputField().SetLabel("You: ")
	c.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			c.send()
		}
	})

	c.Flex.AddItem(c.history, 0, 1, false)
	c.Flex.AddItem(c.input, 1, 0, true)
	c.Flex.SetBorder(true).
		SetTitle(" 🤖 Inbox Agent ").
		SetTitleAlign(tview.AlignCenter)

	return c
}

// SetEmailContext scopes the next questions to one email, or clears the
// scope when id is empty
func (c *ChatPanel) SetEmailContext(id string) {
	c.mu.Lock()
	c.emailID = id
	c.mu.Unlock()

	if id != "" {
		c.appendLine(fmt.Sprintf("[gray](context: email %s)[-]", shortID(id)))
	}
}

// send submits the typed message to the agent. One turn at a time; input
// during a pending turn is rejected with a status notice.
func (c *ChatPanel) send() {
	message := strings.TrimSpace(c.input.GetText())
	if message == "" {
		return
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		c.app.errorHandler.ShowWarning(c.app.ctx, "Still waiting for the agent")
		return
	}
	c.inFlight = true
	emailID := c.emailID
	c.mu.Unlock()

	c.input.SetText("")
	c.appendLine(fmt.Sprintf("[::b]You:[::-] %s", message))
	c.appendLine("[gray]Agent is thinking…[-]")

	go func() {
		resp, err := c.agent.Chat(c.app.ctx, message, emailID)

		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()

		if err != nil {
			c.app.showError(err, "Agent chat")
			c.app.QueueUpdateDraw(func() {
				c.replaceLastLine("[red]Agent: (no reply)[-]")
			})
			return
		}

		c.app.QueueUpdateDraw(func() {
			c.replaceLastLine(fmt.Sprintf("[::b]Agent:[::-] %s", resp.Response))
		})
	}()
}

func (c *ChatPanel) appendLine(line string) {
	fmt.Fprintf(c.history, "%s\n", line)
	c.history.ScrollToEnd()
}

// replaceLastLine swaps the trailing placeholder line for the final one
func (c *ChatPanel) replaceLastLine(line string) {
	text := c.history.GetText(false)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > 0 {
		lines[len(lines)-1] = line
	}
	c.history.SetText(strings.Join(lines, "\n") + "\n")
	c.history.ScrollToEnd()
}
