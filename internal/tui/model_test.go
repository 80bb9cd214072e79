package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/repl"
	"github.com/zephyrtronium/calc/internal/session"
)

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	r, cmd := m.Update(msg)
	n, ok := r.(Model)
	require.True(t, ok, "Update returned %T", r)
	return n, cmd
}

func typeLine(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelEvaluates(t *testing.T) {
	h := session.New()
	m := New(h, "calc> ")
	m, cmd := typeLine(t, m, "2 + 3*4")
	assert.False(t, isQuit(cmd))
	assert.Empty(t, m.input.Value())
	require.Equal(t, 1, h.Len())
	assert.Equal(t, calc.IntValue(14), h.Entries()[0].Result)

	n := len(m.transcript)
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, line{kind: kindInput, text: "calc> 2 + 3*4"}, m.transcript[n-2])
	assert.Equal(t, line{kind: kindResult, text: "14"}, m.transcript[n-1])
	assert.Contains(t, m.View(), "14")
}

func TestModelErrors(t *testing.T) {
	h := session.New()
	m := New(h, "> ")
	m, _ = typeLine(t, m, "1/0")
	assert.Zero(t, h.Len())
	last := m.transcript[len(m.transcript)-1]
	assert.Equal(t, kindError, last.kind)
	assert.True(t, strings.HasPrefix(last.text, "Error: "))
}

func TestModelCommands(t *testing.T) {
	h := session.New()
	m := New(h, "> ")
	m, _ = typeLine(t, m, "7/2")
	m, _ = typeLine(t, m, "history")
	last := m.transcript[len(m.transcript)-1]
	assert.Equal(t, line{kind: kindMessage, text: "1: 7/2 = 3.5"}, last)

	m, _ = typeLine(t, m, "clear")
	assert.Zero(t, h.Len())

	before := len(m.transcript)
	m, _ = typeLine(t, m, "   ")
	assert.Equal(t, before, len(m.transcript))
}

func TestModelQuit(t *testing.T) {
	cases := []struct {
		name string
		msgs []tea.Msg
	}{
		{"ctrl+c", []tea.Msg{tea.KeyMsg{Type: tea.KeyCtrlC}}},
		{"esc", []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}}},
		{"quit", []tea.Msg{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("quit")}, tea.KeyMsg{Type: tea.KeyEnter}}},
		{"exit", []tea.Msg{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Exit")}, tea.KeyMsg{Type: tea.KeyEnter}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := New(session.New(), "> ")
			var cmd tea.Cmd
			for _, msg := range c.msgs {
				m, cmd = update(t, m, msg)
			}
			assert.True(t, isQuit(cmd))
		})
	}
}

func TestModelRecall(t *testing.T) {
	h := session.New()
	m := New(h, "> ")
	m, _ = typeLine(t, m, "1+1")
	m, _ = typeLine(t, m, "2+2")

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}
	m, _ = update(t, m, up)
	assert.Equal(t, "2+2", m.input.Value())
	m, _ = update(t, m, up)
	assert.Equal(t, "1+1", m.input.Value())
	m, _ = update(t, m, up)
	assert.Equal(t, "1+1", m.input.Value(), "recall past the oldest entry")
	m, _ = update(t, m, down)
	assert.Equal(t, "2+2", m.input.Value())
	m, _ = update(t, m, down)
	assert.Empty(t, m.input.Value())

	m, _ = update(t, m, up)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, -1, m.recall)
}

func TestModelOptions(t *testing.T) {
	m := New(session.New(), "> ", repl.WithEcho(true))
	m, _ = typeLine(t, m, "-2^2")
	last := m.transcript[len(m.transcript)-1]
	assert.Equal(t, "((-2) ^ 2) : 4", last.text)
}

func TestModelResize(t *testing.T) {
	m := New(session.New(), "> ")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chrome, m.viewport.Height)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 2, Height: 2})
	assert.Equal(t, 1, m.viewport.Height)
	assert.NotEmpty(t, m.View())
}
