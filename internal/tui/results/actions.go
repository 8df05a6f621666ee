package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/sqlcli/internal/app"
	"github.com/joacominatel/sqlcli/internal/database"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Write encodes a result in the given export format.
func Write(w io.Writer, r *app.Result, format string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteCSV writes the column names followed by one record per row.
// NULL values become empty fields.
func WriteCSV(w io.Writer, r *app.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, c := range r.Columns {
			if v := row[c]; v != nil {
				record[i] = FormatValue(v)
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the rows as a JSON array of objects in column order.
func WriteJSON(w io.Writer, r *app.Result) error {
	var b strings.Builder
	b.WriteString("[")
	for i := range r.Rows {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  ")
		b.WriteString(rowToJSON(r, i))
	}
	b.WriteString("\n]\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// rowToJSON preserves column order unlike map marshaling
func rowToJSON(r *app.Result, i int) string {
	row := r.Rows[i]
	var b strings.Builder
	b.WriteString("{")
	for j, col := range r.Columns {
		if j > 0 {
			b.WriteString(", ")
		}
		key, _ := json.Marshal(col)
		b.Write(key)
		b.WriteString(": ")
		b.Write(jsonValue(row[col]))
	}
	b.WriteString("}")
	return b.String()
}

func jsonValue(v any) []byte {
	if raw, ok := v.([]byte); ok {
		if utf8.Valid(raw) {
			v = string(raw)
		} else {
			v = FormatValue(raw)
		}
	}
	out, err := json.Marshal(v)
	if err != nil {
		out, _ = json.Marshal(FormatValue(v))
	}
	return out
}

func (m Model) copyRowCmd() tea.Cmd {
	if m.result == nil || m.scrollY >= len(m.result.Rows) {
		return notify("No row to copy")
	}
	row := rowToJSON(m.result, m.scrollY)
	return func() tea.Msg {
		if err := clipboard.WriteAll(row); err != nil {
			return StatusNotifyMsg{Message: "Copy failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: "Copied row as JSON"}
	}
}

// --- Filter ---

func (m Model) filterByValueCmd() tea.Cmd {
	col, val, ok := m.selectedCell()
	if !ok || m.result.Table == "" {
		return notify("Cannot filter: no cell selected")
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", m.result.Table, condition(col, val))
	return func() tea.Msg {
		return SetEditorQueryMsg{Query: query}
	}
}

// --- Delete ---

func (m Model) generateDeleteCmd() tea.Cmd {
	if m.result == nil || m.scrollY >= len(m.result.Rows) || m.result.Table == "" {
		return notify("No row to delete")
	}
	row := m.result.Rows[m.scrollY]

	keys := keyColumns(m.result.Columns, m.result.Schema())
	conditions := make([]string, len(keys))
	for i, col := range keys {
		conditions[i] = condition(col, row[col])
	}

	// sent to the editor for review, never executed directly
	query := fmt.Sprintf("%s review before executing!\nDELETE FROM %s WHERE %s",
		database.CommentMarker, m.result.Table, strings.Join(conditions, " AND "))
	return func() tea.Msg {
		return SetEditorQueryMsg{Query: query}
	}
}

// keyColumns returns the primary key columns of schema in key order, or
// every result column when the result lacks part of the key.
func keyColumns(columns []string, schema database.Schema) []string {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var pk []database.Column
	for _, col := range schema {
		if !col.IsPrimary() {
			continue
		}
		if !present[col.Name] {
			return columns
		}
		pk = append(pk, col)
	}
	if len(pk) == 0 {
		return columns
	}
	sort.Slice(pk, func(i, j int) bool { return pk[i].PrimaryKey < pk[j].PrimaryKey })
	keys := make([]string, len(pk))
	for i, col := range pk {
		keys[i] = col.Name
	}
	return keys
}

func condition(col string, v any) string {
	if v == nil {
		return database.QuoteIdentifier(col) + " IS NULL"
	}
	return database.QuoteIdentifier(col) + " = " + sqlLiteral(v)
}

// sqlLiteral renders v as a SQL literal: numbers bare, blobs as x'..' and
// everything else as a quoted string.
func sqlLiteral(v any) string {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return FormatValue(x)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case []byte:
		if !utf8.Valid(x) {
			return FormatValue(x)
		}
	}
	return "'" + strings.ReplaceAll(FormatValue(v), "'", "''") + "'"
}

// --- Export ---

func (m Model) exportCmd(format string) tea.Cmd {
	result := m.result
	if result == nil {
		return notify("Nothing to export")
	}
	return func() tea.Msg {
		ts := time.Now().Format("20060102_150405")
		filename := fmt.Sprintf("sqlcli_export_%s.%s", ts, format)

		f, err := os.Create(filename)
		if err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		defer f.Close()

		if err := Write(f, result, format); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(result.Rows), filename)}
	}
}

func notify(msg string) tea.Cmd {
	return func() tea.Msg { return StatusNotifyMsg{Message: msg} }
}
