package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/joacominatel/sqlcli/internal/tui/theme"
)

// ExecuteQueryMsg is sent when the user triggers query execution.
type ExecuteQueryMsg struct {
	Query string
	// Reload asks for the table schema to be fetched again.
	Reload bool
}

// Model is the SQL query editor component.
type Model struct {
	textarea textarea.Model
	width    int
	height   int
	focused  bool

	tableNames  []string
	completions []string
	compIndex   int
}

// New creates a new editor model.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Enter SQL query..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0 // unlimited
	ta.Prompt = "│ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
	ta.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(theme.ColorBorder)

	return Model{textarea: ta}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.textarea.SetWidth(w - 2)
	m.textarea.SetHeight(h - 2)
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if f {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
}

// Value returns the current editor content.
func (m Model) Value() string {
	return m.textarea.Value()
}

// SetQuery replaces the editor content.
func (m *Model) SetQuery(query string) {
	m.textarea.SetValue(query)
}

// SetTableNames sets the table names offered by Tab completion.
func (m *Model) SetTableNames(names []string) {
	m.tableNames = names
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		key := msg.String()
		switch key {
		case "ctrl+e", "f5", "ctrl+r":
			query := StripComments(m.textarea.Value())
			if query == "" {
				return m, nil
			}
			reload := key == "ctrl+r"
			m.completions = nil
			return m, func() tea.Msg {
				return ExecuteQueryMsg{Query: query, Reload: reload}
			}
		case "ctrl+k":
			m.textarea.Reset()
			m.completions = nil
			return m, nil
		case "tab":
			if m.complete() {
				return m, nil
			}
		}
		if key != "tab" {
			m.completions = nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// CompletionActive reports whether Tab is cycling table names.
func (m Model) CompletionActive() bool {
	return len(m.completions) > 0
}

// complete replaces the word before the end of the text with the next table
// name it prefixes. Returns false when nothing matches.
func (m *Model) complete() bool {
	val := m.textarea.Value()
	if len(m.completions) > 0 {
		m.compIndex = (m.compIndex + 1) % len(m.completions)
	} else {
		partial := lastWord(val)
		if partial == "" {
			return false
		}
		lower := strings.ToLower(partial)
		for _, name := range m.tableNames {
			if strings.HasPrefix(strings.ToLower(name), lower) {
				m.completions = append(m.completions, name)
			}
		}
		if len(m.completions) == 0 {
			return false
		}
		m.compIndex = 0
	}
	base := strings.TrimSuffix(val, lastWord(val))
	m.textarea.SetValue(base + m.completions[m.compIndex])
	return true
}

// StripComments drops lines starting with database.CommentMarker and trims the rest.
func StripComments(query string) string {
	lines := strings.Split(query, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), database.CommentMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func lastWord(s string) string {
	i := len(s) - 1
	for i >= 0 && isIdentChar(s[i]) {
		i--
	}
	return s[i+1:]
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}

// View renders the editor.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Query Editor")

	var hint string
	if len(m.completions) > 1 {
		parts := make([]string, len(m.completions))
		for i, c := range m.completions {
			if i == m.compIndex {
				parts[i] = lipgloss.NewStyle().Foreground(theme.ColorHighlight).Bold(true).Render(c)
			} else {
				parts[i] = theme.StyleMuted.Render(c)
			}
		}
		hint = "\n" + lipgloss.NewStyle().Padding(0, 1).Render(
			theme.StyleMuted.Render("Tab: ")+strings.Join(parts, " │ "),
		)
	}

	return title + "\n" + m.textarea.View() + hint
}
