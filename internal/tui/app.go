package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/sqlcli/internal/app"
	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/joacominatel/sqlcli/internal/tui/editor"
	"github.com/joacominatel/sqlcli/internal/tui/explorer"
	"github.com/joacominatel/sqlcli/internal/tui/results"
	"github.com/joacominatel/sqlcli/internal/tui/statusbar"
	"github.com/joacominatel/sqlcli/internal/tui/theme"
)

// Pane identifies a focusable area.
type Pane int

const (
	PaneExplorer Pane = iota
	PaneEditor
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneExplorer:
		return "explorer"
	case PaneEditor:
		return "editor"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// Custom messages for async operations.
type (
	tablesLoadedMsg struct {
		tables []string
		err    error
	}
	queryExecutedMsg struct {
		result *app.Result
		err    error
	}
	columnsLoadedMsg struct {
		table   string
		columns database.Schema
		err     error
	}
)

// Model is the top-level bubbletea model orchestrating all components.
type Model struct {
	session    *app.Session
	name       string
	defaults   app.QueryOptions
	explorer   explorer.Model
	editor     editor.Model
	results    results.Model
	statusbar  statusbar.Model
	activePane Pane
	width      int
	height     int
}

// NewModel creates the top-level model over an open session. defaults apply
// to every query; Ctrl+R additionally forces a schema reload.
func NewModel(session *app.Session, name string, defaults app.QueryOptions) Model {
	m := Model{
		session:   session,
		name:      name,
		defaults:  defaults,
		explorer:  explorer.New(),
		editor:    editor.New(),
		results:   results.New(),
		statusbar: statusbar.New(),
	}
	m.statusbar.SetConnected(true, name)
	m.explorer.SetLoading(true)
	m.setFocus(PaneEditor)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.editor.Init(), m.loadTablesCmd())
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if table, ok := explorer.IsRequestColumnsMsg(msg); ok {
		return m, m.loadColumnsCmd(table)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.activePane != PaneEditor {
				return m, tea.Quit
			}
		case "tab":
			// the editor uses Tab for table name completion
			if m.activePane != PaneEditor {
				m.cyclePane()
				return m, nil
			}
		case "esc":
			m.cyclePane()
			return m, nil
		case "shift+tab":
			m.cyclePaneBack()
			return m, nil
		}

	case tablesLoadedMsg:
		if msg.err != nil {
			m.explorer.SetLoading(false)
			m.statusbar.SetMessage("Failed to list tables: " + msg.err.Error())
			return m, nil
		}
		m.explorer.SetTables(m.session.DatabaseName(), msg.tables)
		m.editor.SetTableNames(msg.tables)
		return m, nil

	case columnsLoadedMsg:
		m.statusbar.SetCachedTables(m.session.CachedTables())
		if msg.err != nil {
			m.explorer.SetColumnsFailed(msg.table)
			m.statusbar.SetMessage("Failed to load columns: " + msg.err.Error())
			return m, nil
		}
		m.explorer.SetColumns(msg.table, msg.columns)
		return m, nil

	case explorer.QuickQueryMsg:
		m.editor.SetQuery(msg.Query)
		m.results.SetLoading(true)
		m.statusbar.SetMessage("Executing query...")
		return m, m.executeQueryCmd(msg.Query, m.defaults)

	case results.SetEditorQueryMsg:
		m.editor.SetQuery(msg.Query)
		m.setFocus(PaneEditor)
		m.statusbar.SetMessage("Review the query, then Ctrl+E to run it")
		return m, nil

	case queryExecutedMsg:
		m.statusbar.SetMessage("")
		m.statusbar.SetCachedTables(m.session.CachedTables())
		if msg.err != nil {
			m.results.SetError(msg.err)
			return m, nil
		}
		m.results.SetResult(msg.result)
		return m, nil

	case results.StatusNotifyMsg:
		m.statusbar.SetMessage(msg.Message)
		return m, nil

	case editor.ExecuteQueryMsg:
		opts := m.defaults
		opts.ReloadSchema = opts.ReloadSchema || msg.Reload
		m.results.SetLoading(true)
		m.statusbar.SetMessage("Executing query...")
		return m, m.executeQueryCmd(msg.Query, opts)
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activePane {
	case PaneExplorer:
		m.explorer, cmd = m.explorer.Update(msg)
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) cyclePane() {
	m.setFocus((m.activePane + 1) % 3)
}

func (m *Model) cyclePaneBack() {
	m.setFocus((m.activePane + 2) % 3)
}

func (m *Model) setFocus(pane Pane) {
	m.activePane = pane
	m.explorer.SetFocused(pane == PaneExplorer)
	m.editor.SetFocused(pane == PaneEditor)
	m.results.SetFocused(pane == PaneResults)
	m.statusbar.SetActivePane(pane.String())
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	explorerWidth, rightWidth := m.paneWidths()
	editorHeight, resultsHeight := m.paneHeights()
	m.explorer.SetSize(explorerWidth-2, m.height-3)
	m.editor.SetSize(rightWidth-2, editorHeight)
	m.results.SetSize(rightWidth-2, resultsHeight)
	m.statusbar.SetWidth(m.width)
}

// paneWidths splits the screen between the explorer and the editor/results
// column.
func (m Model) paneWidths() (int, int) {
	explorerWidth := min(35, max(22, m.width/4))
	return explorerWidth, m.width - explorerWidth
}

// paneHeights splits the screen above the status bar, each pane framed by a
// two-line border.
func (m Model) paneHeights() (int, int) {
	avail := m.height - 1 - 4
	editorHeight := max(5, avail*35/100)
	return editorHeight, max(1, avail-editorHeight)
}

// Async commands

func (m Model) loadTablesCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tables, err := session.Tables(ctx)
		return tablesLoadedMsg{tables: tables, err: err}
	}
}

func (m Model) loadColumnsCmd(table string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		columns, err := session.Columns(ctx, table)
		return columnsLoadedMsg{table: table, columns: columns, err: err}
	}
}

func (m Model) executeQueryCmd(query string, opts app.QueryOptions) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		result, err := session.Query(ctx, query, opts)
		return queryExecutedMsg{result: result, err: err}
	}
}

// View renders the entire application.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	explorerWidth, rightWidth := m.paneWidths()
	editorHeight, resultsHeight := m.paneHeights()

	border := func(p Pane) lipgloss.Style {
		if m.activePane == p {
			return theme.StyleActiveBorder
		}
		return theme.StyleBorder
	}

	explorerView := border(PaneExplorer).
		Width(explorerWidth - 2).
		Height(m.height - 3).
		Render(m.explorer.View())
	editorView := border(PaneEditor).
		Width(rightWidth - 2).
		Height(editorHeight).
		Render(m.editor.View())
	resultsView := border(PaneResults).
		Width(rightWidth - 2).
		Height(resultsHeight).
		Render(m.results.View())

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top,
		explorerView,
		lipgloss.JoinVertical(lipgloss.Left, editorView, resultsView),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		mainArea,
		m.statusbar.View(),
	)
}
