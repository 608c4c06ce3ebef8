package shell

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const historyLimit = 500

// TerminalReader edits lines with history (up/down) and tab completion.
type TerminalReader struct {
	in      io.Reader
	out     io.Writer
	history []string
}

// NewTerminalReader creates a reader for an interactive terminal.
func NewTerminalReader(in io.Reader, out io.Writer) *TerminalReader {
	return &TerminalReader{in: in, out: out}
}

// ReadLine implements LineReader. Ctrl+D on an empty line ends input and
// Ctrl+C discards the current line.
func (r *TerminalReader) ReadLine(ctx context.Context, prompt string, suggestions []string) (string, error) {
	model := newLineModel(prompt, suggestions, r.history)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(r.in),
		tea.WithOutput(r.out),
	)

	final, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("read line: %w", err)
	}

	result := final.(lineModel)
	if result.eof {
		return "", io.EOF
	}
	line := result.input.Value()
	r.remember(line)
	return line, nil
}

func (r *TerminalReader) remember(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if n := len(r.history); n > 0 && r.history[n-1] == line {
		return
	}
	r.history = append(r.history, line)
	if len(r.history) > historyLimit {
		r.history = r.history[len(r.history)-historyLimit:]
	}
}

// lineModel is a single-line editor.
type lineModel struct {
	input   textinput.Model
	history []string
	cursor  int    // index into history; len(history) is the draft
	draft   string // text typed before browsing history
	done    bool
	eof     bool
}

func newLineModel(prompt string, suggestions, history []string) lineModel {
	input := textinput.New()
	input.Prompt = prompt
	input.ShowSuggestions = true
	input.SetSuggestions(suggestions)
	input.Focus()
	return lineModel{input: input, history: history, cursor: len(history)}
}

func (m lineModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.input.SetValue("")
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.eof = true
				return m, tea.Quit
			}
		case tea.KeyUp:
			m.browse(-1)
			return m, nil
		case tea.KeyDown:
			m.browse(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *lineModel) browse(step int) {
	next := m.cursor + step
	if next < 0 || next > len(m.history) {
		return
	}
	if m.cursor == len(m.history) {
		m.draft = m.input.Value()
	}
	m.cursor = next
	if m.cursor == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.cursor])
	}
	m.input.CursorEnd()
}

func (m lineModel) View() string {
	if m.done || m.eof {
		return m.input.Prompt + m.input.Value() + "\n"
	}
	return m.input.View()
}
