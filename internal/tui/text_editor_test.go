package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextEditor_SetAndGetText(t *testing.T) {
	e := NewTextEditor()

	e.SetText("line one\nline two")

	assert.Equal(t, "line one\nline two", e.GetText())
	line, col := e.CursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 8, col)
}

func TestTextEditor_InsertRunes(t *testing.T) {
	e := NewTextEditor()

	for _, ch := range "hi" {
		e.insertRune(ch)
	}

	assert.Equal(t, "hi", e.GetText())
}

func TestTextEditor_InsertInMiddle(t *testing.T) {
	e := NewTextEditor()
	e.SetText("hllo")
	e.cursorCol = 1

	e.insertRune('e')

	assert.Equal(t, "hello", e.GetText())
}

func TestTextEditor_NewlineSplitsLine(t *testing.T) {
	e := NewTextEditor()
	e.SetText("hello world")
	e.cursorCol = 5

	e.insertNewline()

	assert.Equal(t, "hello\n world", e.GetText())
	line, col := e.CursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, col)
}

func TestTextEditor_BackspaceJoinsLines(t *testing.T) {
	e := NewTextEditor()
	e.SetText("one\ntwo")
	e.cursorLine = 1
	e.cursorCol = 0

	e.backspace()

	assert.Equal(t, "onetwo", e.GetText())
	line, col := e.CursorPosition()
	assert.Equal(t, 0, line)
	assert.Equal(t, 3, col)
}

func TestTextEditor_BackspaceAtStartIsNoop(t *testing.T) {
	e := NewTextEditor()
	e.SetText("abc")
	e.cursorLine = 0
	e.cursorCol = 0

	e.backspace()

	assert.Equal(t, "abc", e.GetText())
}

func TestTextEditor_DeleteForward(t *testing.T) {
	e := NewTextEditor()
	e.SetText("abc")
	e.cursorCol = 1

	e.deleteForward()

	assert.Equal(t, "ac", e.GetText())
}

func TestTextEditor_ChangedFuncFiresOnEdits(t *testing.T) {
	e := NewTextEditor()
	var changes []string
	e.SetChangedFunc(func(text string) {
		changes = append(changes, text)
	})

	e.insertRune('a')
	e.insertRune('b')
	e.backspace()

	assert.Equal(t, []string{"a", "ab", "a"}, changes)
}

func TestTextEditor_SetTextDoesNotFireChangedFunc(t *testing.T) {
	e := NewTextEditor()
	fired := false
	e.SetChangedFunc(func(string) { fired = true })

	e.SetText("loaded from server")

	assert.False(t, fired)
}

func TestTextEditor_CursorMovementClampsColumn(t *testing.T) {
	e := NewTextEditor()
	e.SetText("a long first line\nxy")
	e.cursorLine = 0
	e.cursorCol = 10

	e.moveDown()

	line, col := e.CursorPosition()
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, col)
}

func TestTextEditor_WideRunes(t *testing.T) {
	e := NewTextEditor()

	for _, ch := range "日本" {
		e.insertRune(ch)
	}
	e.backspace()

	assert.Equal(t, "日", e.GetText())
}
