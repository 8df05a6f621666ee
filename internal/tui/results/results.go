package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/sqlcli/internal/app"
	"github.com/joacominatel/sqlcli/internal/tui/theme"
)

const maxColWidth = 40

// Model is the query results component.
type Model struct {
	result    *app.Result
	err       error
	headers   []string
	cells     [][]string
	width     int
	height    int
	focused   bool
	scrollY   int // also the selected row
	cursorX   int
	loading   bool
	colWidths []int
}

// New creates a new results model.
func New() Model {
	return Model{}
}

// Render formats a result as a plain table without any paging.
func Render(r *app.Result) string {
	m := New()
	m.SetResult(r)
	m.SetSize(0, len(m.cells)+4)
	return m.View()
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetResult sets the query result to display.
func (m *Model) SetResult(r *app.Result) {
	m.result = r
	m.err = nil
	m.scrollY = 0
	m.cursorX = 0
	m.loading = false

	schema := r.Schema()
	m.headers = make([]string, len(r.Columns))
	for i, c := range r.Columns {
		m.headers[i] = ColumnLabel(c, schema)
	}
	m.cells = make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		line := make([]string, len(r.Columns))
		for j, c := range r.Columns {
			line[j] = FormatValue(row[c])
		}
		m.cells[i] = line
	}
	m.calculateColumnWidths()
}

// SetError sets an error to display.
func (m *Model) SetError(err error) {
	m.err = err
	m.result = nil
	m.headers = nil
	m.cells = nil
	m.scrollY = 0
	m.cursorX = 0
	m.loading = false
}

// selectedCell returns the column name and raw value under the cursor.
func (m Model) selectedCell() (string, any, bool) {
	if m.result == nil || m.scrollY >= len(m.result.Rows) || m.cursorX >= len(m.result.Columns) {
		return "", nil, false
	}
	col := m.result.Columns[m.cursorX]
	return col, m.result.Rows[m.scrollY][col], true
}

func (m *Model) calculateColumnWidths() {
	m.colWidths = make([]int, len(m.headers))

	// Use display width (not byte length) for accurate measurement
	for i, h := range m.headers {
		m.colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range m.cells {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}
	for i := range m.colWidths {
		m.colWidths[i] = max(1, min(m.colWidths[i], maxColWidth))
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		last := max(0, len(m.cells)-1)
		switch msg.String() {
		case "up", "k":
			m.scrollY = max(0, m.scrollY-1)
		case "down", "j":
			m.scrollY = min(last, m.scrollY+1)
		case "pgup":
			m.scrollY = max(0, m.scrollY-m.height/2)
		case "pgdown":
			m.scrollY = min(last, m.scrollY+m.height/2)
		case "left", "h":
			m.cursorX = max(0, m.cursorX-1)
		case "right", "l":
			m.cursorX = min(max(0, len(m.headers)-1), m.cursorX+1)
		case "f":
			return m, m.filterByValueCmd()
		case "D":
			return m, m.generateDeleteCmd()
		case "y":
			return m, m.copyRowCmd()
		case "c":
			return m, m.exportCmd(FormatCSV)
		case "J":
			return m, m.exportCmd(FormatJSON)
		}
	}

	return m, nil
}

// View renders the results pane.
func (m Model) View() string {
	title := theme.StyleTitle.Render("Results")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Executing query...")
	}
	if m.err != nil {
		return title + "\n" + theme.StyleError.Render("  Error: "+m.err.Error())
	}
	if m.result == nil {
		return title + "\n" + theme.StyleMuted.Render("  Execute a query to see results")
	}

	stats := fmt.Sprintf("%d row(s) | table %s | %s",
		len(m.cells),
		m.result.Table,
		m.result.Duration.Round(1000).String(),
	)
	header := title + "  " + theme.StyleMuted.Render(stats)

	if len(m.headers) == 0 {
		return header + "\n" + theme.StyleSuccess.Render("  Query executed successfully")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderRow(m.headers, true, -1))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	visibleRows := max(1, m.height-4)
	for i := m.scrollY; i < len(m.cells) && i < m.scrollY+visibleRows; i++ {
		b.WriteString("\n")
		cursor := -1
		if m.focused && i == m.scrollY {
			cursor = m.cursorX
		}
		b.WriteString(m.renderRow(m.cells[i], false, cursor))
	}

	return b.String()
}

func (m Model) renderRow(cells []string, isHeader bool, cursor int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		width := m.colWidths[i]
		display := truncate(cell, width)
		if pad := width - lipgloss.Width(display); pad > 0 {
			display += strings.Repeat(" ", pad)
		}
		switch {
		case isHeader:
			display = theme.StyleHeader.Render(display)
		case i == cursor:
			display = theme.StyleCursor.Render(display)
		}
		parts[i] = display
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		parts[i] = strings.Repeat("─", w)
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}

// truncate shortens s to width display cells, ending with an ellipsis.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
