package tui

import (
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// TextEditor is a multiline editable text view used for draft bodies.
// It renders through an embedded TextView and keeps its own line buffer
// and cursor.
type TextEditor struct {
	*tview.TextView

	lines       []string
	cursorLine  int
	cursorCol   int
	editable    bool
	changedFunc func(string)
}

// NewTextEditor creates an empty editable text view
func NewTextEditor() *TextEditor {
	e := &TextEditor{
		TextView: tview.NewTextView(),
		lines:    []string{""},
		editable: true,
	}
	e.TextView.SetDynamicColors(false).SetWrap(true).SetScrollable(true)
	e.setupInputHandler()
	e.updateDisplay()
	return e
}

// setupInputHandler installs the editing keys on the underlying TextView;
// unhandled keys fall through to its scrolling behavior
func (e *TextEditor) setupInputHandler() {
	e.TextView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if !e.editable {
			return event
		}

		switch event.Key() {
		case tcell.KeyRune:
			e.insertRune(event.Rune())
		case tcell.KeyEnter:
			e.insertNewline()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			e.backspace()
		case tcell.KeyDelete:
			e.deleteForward()
		case tcell.KeyLeft:
			e.moveLeft()
		case tcell.KeyRight:
			e.moveRight()
		case tcell.KeyUp:
			e.moveUp()
		case tcell.KeyDown:
			e.moveDown()
		case tcell.KeyHome:
			e.cursorCol = 0
			e.updateDisplay()
		case tcell.KeyEnd:
			e.cursorCol = len([]rune(e.lines[e.cursorLine]))
			e.updateDisplay()
		default:
			return event
		}
		return nil
	})
}

// SetText replaces the buffer and moves the cursor to the end
func (e *TextEditor) SetText(text string) {
	e.lines = strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(e.lines) == 0 {
		e.lines = []string{""}
	}
	e.cursorLine = len(e.lines) - 1
	e.cursorCol = len([]rune(e.lines[e.cursorLine]))
	e.updateDisplay()
}

// GetText returns the buffer contents
func (e *TextEditor) GetText() string {
	return strings.Join(e.lines, "\n")
}

// SetChangedFunc registers a callback invoked after every edit
func (e *TextEditor) SetChangedFunc(changed func(string)) *TextEditor {
	e.changedFunc = changed
	return e
}

// SetEditable toggles whether key input mutates the buffer
func (e *TextEditor) SetEditable(editable bool) *TextEditor {
	e.editable = editable
	return e
}

// CursorPosition returns the current line and column
func (e *TextEditor) CursorPosition() (int, int) {
	return e.cursorLine, e.cursorCol
}

func (e *TextEditor) insertRune(ch rune) {
	line := []rune(e.lines[e.cursorLine])
	if e.cursorCol > len(line) {
		e.cursorCol = len(line)
	}
	line = append(line[:e.cursorCol], append([]rune{ch}, line[e.cursorCol:]...)...)
	e.lines[e.cursorLine] = string(line)
	e.cursorCol++
	e.textChanged()
}

func (e *TextEditor) insertNewline() {
	line := []rune(e.lines[e.cursorLine])
	if e.cursorCol > len(line) {
		e.cursorCol = len(line)
	}
	before, after := string(line[:e.cursorCol]), string(line[e.cursorCol:])

	rest := make([]string, len(e.lines[e.cursorLine+1:]))
	copy(rest, e.lines[e.cursorLine+1:])
	e.lines = append(e.lines[:e.cursorLine], append([]string{before, after}, rest...)...)

	e.cursorLine++
	e.cursorCol = 0
	e.textChanged()
}

func (e *TextEditor) backspace() {
	if e.cursorCol > 0 {
		line := []rune(e.lines[e.cursorLine])
		line = append(line[:e.cursorCol-1], line[e.cursorCol:]...)
		e.lines[e.cursorLine] = string(line)
		e.cursorCol--
		e.textChanged()
		return
	}
	if e.cursorLine > 0 {
		// Join with the previous line
		prev := e.lines[e.cursorLine-1]
		e.cursorCol = len([]rune(prev))
		e.lines[e.cursorLine-1] = prev + e.lines[e.cursorLine]
		e.lines = append(e.lines[:e.cursorLine], e.lines[e.cursorLine+1:]...)
		e.cursorLine--
		e.textChanged()
	}
}

func (e *TextEditor) deleteForward() {
	line := []rune(e.lines[e.cursorLine])
	if e.cursorCol < len(line) {
		line = append(line[:e.cursorCol], line[e.cursorCol+1:]...)
		e.lines[e.cursorLine] = string(line)
		e.textChanged()
		return
	}
	if e.cursorLine < len(e.lines)-1 {
		e.lines[e.cursorLine] = string(line) + e.lines[e.cursorLine+1]
		e.lines = append(e.lines[:e.cursorLine+1], e.lines[e.cursorLine+2:]...)
		e.textChanged()
	}
}

func (e *TextEditor) moveLeft() {
	if e.cursorCol > 0 {
		e.cursorCol--
	} else if e.cursorLine > 0 {
		e.cursorLine--
		e.cursorCol = len([]rune(e.lines[e.cursorLine]))
	}
	e.updateDisplay()
}

func (e *TextEditor) moveRight() {
	if e.cursorCol < len([]rune(e.lines[e.cursorLine])) {
		e.cursorCol++
	} else if e.cursorLine < len(e.lines)-1 {
		e.cursorLine++
		e.cursorCol = 0
	}
	e.updateDisplay()
}

func (e *TextEditor) moveUp() {
	if e.cursorLine > 0 {
		e.cursorLine--
		e.clampCursorCol()
	}
	e.updateDisplay()
}

func (e *TextEditor) moveDown() {
	if e.cursorLine < len(e.lines)-1 {
		e.cursorLine++
		e.clampCursorCol()
	}
	e.updateDisplay()
}

func (e *TextEditor) clampCursorCol() {
	if max := len([]rune(e.lines[e.cursorLine])); e.cursorCol > max {
		e.cursorCol = max
	}
}

func (e *TextEditor) textChanged() {
	e.updateDisplay()
	if e.changedFunc != nil {
		e.changedFunc(e.GetText())
	}
}

// updateDisplay re-renders the buffer with a block cursor marker
func (e *TextEditor) updateDisplay() {
	var b strings.Builder
	for i, line := range e.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if e.editable && i == e.cursorLine {
			runes := []rune(line)
			col := e.cursorCol
			if col > len(runes) {
				col = len(runes)
			}
			b.WriteString(string(runes[:col]))
			b.WriteString("█")
			b.WriteString(string(runes[col:]))
		} else {
			b.WriteString(line)
		}
	}
	e.TextView.SetText(b.String())
}
