package explorer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/joacominatel/sqlcli/internal/tui/theme"
)

// NodeKind identifies the type of a tree node.
type NodeKind int

const (
	NodeDatabase NodeKind = iota
	NodeTable
	NodeColumn
)

// TreeNode represents a single node in the table tree.
type TreeNode struct {
	Kind     NodeKind
	Name     string
	Children []*TreeNode
	Expanded bool
	Loaded   bool // whether children have been fetched

	Table  string          // parent table name (for columns)
	Column database.Column // column metadata (for columns)
}

// flatItem is a visible item in the flattened tree view.
type flatItem struct {
	node  *TreeNode
	depth int
}

// Model is the explorer (table tree) component.
type Model struct {
	tree    *TreeNode
	items   []flatItem
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
}

// New creates a new explorer model.
func New() Model {
	return Model{}
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

// Focused returns whether the explorer has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetTables populates the explorer with the tables of one database. Columns
// are fetched when a table is first expanded.
func (m *Model) SetTables(dbName string, tables []string) {
	root := &TreeNode{
		Kind:     NodeDatabase,
		Name:     dbName,
		Expanded: true,
		Loaded:   true,
	}
	for _, t := range tables {
		root.Children = append(root.Children, &TreeNode{Kind: NodeTable, Name: t})
	}

	m.tree = root
	m.cursor = 0
	m.flatten()
	m.loading = false
}

// SetColumns adds column nodes to a table node.
func (m *Model) SetColumns(table string, columns database.Schema) {
	node := m.findTable(table)
	if node == nil {
		return
	}
	node.Children = nil
	for _, col := range columns {
		node.Children = append(node.Children, &TreeNode{
			Kind:   NodeColumn,
			Name:   col.Name,
			Table:  table,
			Column: col,
		})
	}
	node.Loaded = true
	m.flatten()
}

// SetColumnsFailed collapses a table whose columns could not be loaded, so
// expanding it again retries.
func (m *Model) SetColumnsFailed(table string) {
	node := m.findTable(table)
	if node == nil {
		return
	}
	node.Expanded = false
	node.Loaded = false
	m.flatten()
}

func (m *Model) findTable(table string) *TreeNode {
	if m.tree == nil {
		return nil
	}
	for _, t := range m.tree.Children {
		if t.Name == table {
			return t
		}
	}
	return nil
}

// SelectedTable returns the table under the cursor, or the table of the
// column under it.
func (m Model) SelectedTable() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return "", false
	}
	node := m.items[m.cursor].node
	switch node.Kind {
	case NodeTable:
		return node.Name, true
	case NodeColumn:
		return node.Table, true
	}
	return "", false
}

// flatten rebuilds the flat item list from the tree.
func (m *Model) flatten() {
	m.items = nil
	if m.tree != nil {
		m.flattenNode(m.tree, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node *TreeNode, depth int) {
	m.items = append(m.items, flatItem{node: node, depth: depth})
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child, depth+1)
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the explorer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter", "right", "l":
			return m, m.toggleExpand()
		case "left", "h":
			m.collapse()
		case "s":
			return m, m.quickQuery("SELECT * FROM %s LIMIT 100")
		case "d":
			return m, m.quickQuery("SELECT COUNT(*) AS count FROM %s")
		}
	}

	return m, nil
}

func (m *Model) toggleExpand() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	// Columns have no children
	if node.Kind == NodeColumn {
		return nil
	}

	node.Expanded = !node.Expanded
	m.flatten()

	if node.Expanded && node.Kind == NodeTable && !node.Loaded {
		table := node.Name
		return func() tea.Msg {
			return requestColumnsMsg{Table: table}
		}
	}
	return nil
}

// collapse folds the node under the cursor; on a column it folds the parent
// table and moves the cursor onto it.
func (m *Model) collapse() {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	node := m.items[m.cursor].node

	if node.Kind == NodeColumn {
		parent := m.findTable(node.Table)
		if parent == nil {
			return
		}
		parent.Expanded = false
		m.flatten()
		for i, item := range m.items {
			if item.node == parent {
				m.cursor = i
			}
		}
		return
	}
	if node.Expanded {
		node.Expanded = false
		m.flatten()
	}
}

func (m Model) quickQuery(format string) tea.Cmd {
	table, ok := m.SelectedTable()
	if !ok {
		return nil
	}
	query := fmt.Sprintf(format, database.QuoteIdentifier(table))
	return func() tea.Msg {
		return QuickQueryMsg{Query: query}
	}
}

// QuickQueryMsg asks the app to run a generated query on the selected table.
type QuickQueryMsg struct {
	Query string
}

// requestColumnsMsg is sent when a table is expanded and needs column data.
type requestColumnsMsg struct {
	Table string
}

// IsRequestColumnsMsg reports whether msg asks for the columns of a table.
func IsRequestColumnsMsg(msg tea.Msg) (table string, ok bool) {
	if m, ok := msg.(requestColumnsMsg); ok {
		return m.Table, true
	}
	return "", false
}

// View renders the explorer.
func (m Model) View() string {
	title := theme.StyleTitle.Render("Tables")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}
	if m.tree == nil {
		return title + "\n" + theme.StyleMuted.Render("  No tables loaded")
	}

	var b strings.Builder
	b.WriteString(title)

	visibleHeight := max(1, m.height-2)

	// Scroll offset to keep cursor visible
	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderNode(m.items[i], i == m.cursor))
	}
	return b.String()
}

func (m Model) renderNode(item flatItem, selected bool) string {
	node := item.node
	indent := strings.Repeat("  ", item.depth)

	icon := "  "
	if node.Kind != NodeColumn {
		icon = "▶ "
		if node.Expanded {
			icon = "▼ "
		}
	}

	name := node.Name
	if node.Kind == NodeColumn {
		if details := columnDetails(node.Column); details != "" {
			name += " " + theme.StyleMuted.Render(details)
		}
	}

	line := indent + icon + name
	if m.width > 2 {
		line = lipgloss.NewStyle().MaxWidth(m.width - 2).Render(line)
	}
	if selected {
		return theme.StyleSelected.Render(line)
	}
	return line
}

// columnDetails summarizes a column: type, key, nullability and default.
func columnDetails(col database.Column) string {
	var parts []string
	if col.DataType != "" {
		parts = append(parts, col.DataType)
	}
	if col.IsPrimary() {
		parts = append(parts, "pk")
	}
	if !col.IsNullable {
		parts = append(parts, "not null")
	}
	if col.Default != nil {
		parts = append(parts, "= "+*col.Default)
	}
	return strings.Join(parts, " ")
}
