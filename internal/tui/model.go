// Package tui implements the full-screen calculator front end.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zephyrtronium/calc/internal/repl"
	"github.com/zephyrtronium/calc/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// chrome is the number of rows used by everything except the transcript.
	chrome = 6
)

// kind is the role of a transcript line, which decides its style.
type kind int8

const (
	kindInput kind = iota
	kindResult
	kindMessage
	kindError
)

type line struct {
	kind kind
	text string
}

// Model is the bubbletea model for a calculator session.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	width    int
	height   int

	hist   *session.History
	opts   []repl.Option
	prompt string

	transcript []line
	// recall is the history entry shown in the input, counting back from the
	// most recent, or -1 when the input is being edited normally.
	recall int
}

// New creates a model recording into h. The options are passed to
// repl.Dispatch for every line.
func New(h *session.History, prompt string, opts ...repl.Option) Model {
	ti := textinput.New()
	ti.Placeholder = "2 + 3*4"
	ti.Prompt = prompt
	ti.CharLimit = 4096
	ti.Width = defaultWidth - 6
	ti.Focus()

	m := Model{
		input:    ti,
		viewport: viewport.New(defaultWidth, defaultHeight-chrome),
		width:    defaultWidth,
		height:   defaultHeight,
		hist:     h,
		opts:     opts,
		prompt:   prompt,
		recall:   -1,
	}
	m.transcript = append(m.transcript, line{kind: kindMessage, text: repl.Banner})
	m.updateContent()
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			text := m.input.Value()
			m.input.Reset()
			m.recall = -1
			if m.submit(text) {
				return m, tea.Quit
			}
			return m, nil

		case "up":
			m.recallEntry(m.recall + 1)
			return m, nil

		case "down":
			m.recallEntry(m.recall - 1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.input.Width = max(msg.Width-6, 1)
		m.updateContent()
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit dispatches one line of input and records it in the transcript. It
// returns whether the session should end.
func (m *Model) submit(text string) bool {
	reply := repl.Dispatch(m.hist, text, m.opts...)
	if reply.Quit {
		return true
	}
	if strings.TrimSpace(text) == "" {
		return false
	}
	m.transcript = append(m.transcript, line{kind: kindInput, text: m.prompt + text})
	k := kindResult
	switch {
	case reply.Err != nil:
		k = kindError
	case isCommand(text):
		k = kindMessage
	}
	for _, s := range reply.Lines {
		m.transcript = append(m.transcript, line{kind: k, text: s})
	}
	m.updateContent()
	return false
}

func isCommand(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "help", "history", "clear":
		return true
	}
	return false
}

// recallEntry replaces the input with the i'th most recent history entry. An
// index below zero restores an empty input.
func (m *Model) recallEntry(i int) {
	if i < 0 {
		m.recall = -1
		m.input.Reset()
		return
	}
	e, ok := m.hist.At(i)
	if !ok {
		return
	}
	m.recall = i
	m.input.SetValue(e.Expr)
	m.input.CursorEnd()
}

func (m *Model) updateContent() {
	var s strings.Builder
	for i, l := range m.transcript {
		if i > 0 {
			s.WriteByte('\n')
		}
		switch l.kind {
		case kindInput:
			s.WriteString(InputLineStyle.Render(l.text))
		case kindResult:
			s.WriteString(ResultStyle.Render(l.text))
		case kindError:
			s.WriteString(ErrorStyle.Render(l.text))
		default:
			s.WriteString(MessageStyle.Render(l.text))
		}
	}
	m.viewport.SetContent(s.String())
	m.viewport.GotoBottom()
}

// View renders the UI.
func (m Model) View() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render("calc"))
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(InputStyle.Render(m.input.View()))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("enter: evaluate • ↑/↓: history • esc: quit"))
	return s.String()
}
