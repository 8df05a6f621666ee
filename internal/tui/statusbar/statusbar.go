package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/sqlcli/internal/tui/theme"
)

// keyHints are shown when there is no status message.
var keyHints = [][2]string{
	{"Ctrl+E", "Execute"},
	{"Ctrl+R", "Reload schema"},
	{"Shift+Tab", "Switch pane"},
	{"f/D", "Filter/Delete"},
	{"y", "Copy row"},
	{"c/J", "Export"},
	{"Ctrl+C", "Quit"},
}

// Hints renders the key hints with highlighted keys.
func Hints() string {
	parts := make([]string, len(keyHints))
	for i, h := range keyHints {
		parts[i] = theme.StyleKey.Render(h[0]) + " " + h[1]
	}
	return strings.Join(parts, " │ ")
}

// Model is the status bar component.
type Model struct {
	width      int
	connected  bool
	connName   string
	activePane string
	cached     int
	message    string
}

// New creates a new status bar model.
func New() Model {
	return Model{activePane: "editor"}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected updates the connection status display.
func (m *Model) SetConnected(connected bool, name string) {
	m.connected = connected
	m.connName = name
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetCachedTables updates the number of cached table schemas.
func (m *Model) SetCachedTables(n int) {
	m.cached = n
}

// SetMessage sets a temporary status message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var left string
	if m.connected {
		left = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("●") +
			" " + m.connName +
			theme.StyleMuted.Render(fmt.Sprintf("  [%s] %d cached", m.activePane, m.cached))
	} else {
		left = lipgloss.NewStyle().Foreground(theme.ColorError).Render("●") + " disconnected"
	}

	right := Hints()
	if m.message != "" {
		right = m.message
	}

	padding := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-4)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
