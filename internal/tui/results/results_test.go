package results

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/sqlcli/internal/app"
	"github.com/joacominatel/sqlcli/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *app.Result {
	schema := database.Schema{
		{OrdinalPos: 1, Name: "id", DataType: "INTEGER", PrimaryKey: 1},
		{OrdinalPos: 2, Name: "name", DataType: "TEXT", IsNullable: true},
	}
	return &app.Result{
		Columns: []string{"id", "name", "extra"},
		Rows: []database.Row{
			{"id": int64(1), "name": "ada", "extra": []byte("x")},
			{"id": int64(2), "name": nil, "extra": []byte{0xff}},
		},
		Schemas:  []database.Schema{schema, schema},
		Table:    "users",
		Duration: 2 * time.Millisecond,
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue("abc"))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, "x'00ff'", FormatValue([]byte{0x00, 0xff}))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "1.5", FormatValue(1.5))
	assert.Equal(t, "2024-01-02T03:04:05Z", FormatValue(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestColumnLabel(t *testing.T) {
	schema := sampleResult().Schema()
	assert.Equal(t, "id INTEGER *", ColumnLabel("id", schema))
	assert.Equal(t, "name TEXT", ColumnLabel("name", schema))
	assert.Equal(t, "count(*)", ColumnLabel("count(*)", schema))
	assert.Equal(t, "id", ColumnLabel("id", nil))
}

func TestRender(t *testing.T) {
	out := Render(sampleResult())

	assert.Contains(t, out, "2 row(s)")
	assert.Contains(t, out, "table users")
	assert.Contains(t, out, "id INTEGER *")
	assert.Contains(t, out, "name TEXT")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "x'ff'")
	// header, separator and both rows
	assert.Len(t, strings.Split(out, "\n"), 5)
}

func TestRender_NoColumns(t *testing.T) {
	out := Render(&app.Result{Table: ""})
	assert.Contains(t, out, "Query executed successfully")
}

func TestModel_States(t *testing.T) {
	m := New()
	assert.Contains(t, m.View(), "Execute a query")

	m.SetLoading(true)
	assert.Contains(t, m.View(), "Executing query")

	m.SetError(errors.New("boom"))
	assert.Contains(t, m.View(), "Error: boom")
}

func TestModel_Scroll(t *testing.T) {
	m := New()
	m.SetResult(sampleResult())
	m.SetSize(80, 5) // one visible row
	m.SetFocused(true)

	assert.Contains(t, m.View(), "ada")
	assert.NotContains(t, m.View(), "NULL")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.View(), "NULL")
	assert.NotContains(t, m.View(), "ada")

	// clamped at the last row
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.scrollY)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.scrollY)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "…", truncate("abcdef", 1))
}

func TestWriteCSV(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Write(&b, sampleResult(), FormatCSV))
	assert.Equal(t, "id,name,extra\n1,ada,x\n2,,x'ff'\n", b.String())
}

func TestWriteJSON(t *testing.T) {
	var b strings.Builder
	require.NoError(t, Write(&b, sampleResult(), FormatJSON))
	assert.Equal(t, "[\n"+
		`  {"id": 1, "name": "ada", "extra": "x"},`+"\n"+
		`  {"id": 2, "name": null, "extra": "x'ff'"}`+"\n"+
		"]\n", b.String())
}

func TestWrite_UnknownFormat(t *testing.T) {
	var b strings.Builder
	require.Error(t, Write(&b, sampleResult(), "xml"))
}

func TestUpdate_CopyWithoutResult(t *testing.T) {
	m := New()
	m.SetFocused(true)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.Equal(t, StatusNotifyMsg{Message: "No row to copy"}, cmd())
}

func focusedSample() Model {
	m := New()
	m.SetSize(80, 10)
	m.SetFocused(true)
	m.SetResult(sampleResult())
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func editorQuery(t *testing.T, cmd tea.Cmd) string {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(SetEditorQueryMsg)
	require.True(t, ok, "got %T", cmd())
	return msg.Query
}

func TestUpdate_FilterByValue(t *testing.T) {
	m := focusedSample()

	_, cmd := m.Update(key("f"))
	assert.Equal(t, `SELECT * FROM users WHERE "id" = 1`, editorQuery(t, cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd = m.Update(key("f"))
	assert.Equal(t, `SELECT * FROM users WHERE "name" = 'ada'`, editorQuery(t, cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd = m.Update(key("f"))
	assert.Equal(t, `SELECT * FROM users WHERE "name" IS NULL`, editorQuery(t, cmd))

	// clamped at the last column
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.cursorX)
	_, cmd = m.Update(key("f"))
	assert.Equal(t, `SELECT * FROM users WHERE "extra" = x'ff'`, editorQuery(t, cmd))
}

func TestUpdate_GenerateDeleteUsesPrimaryKey(t *testing.T) {
	m := focusedSample()

	_, cmd := m.Update(key("D"))
	assert.Equal(t, "-- review before executing!\nDELETE FROM users WHERE \"id\" = 1", editorQuery(t, cmd))
}

func TestUpdate_GenerateDeleteWithoutKey(t *testing.T) {
	r := sampleResult()
	r.Schemas = []database.Schema{nil, nil}
	m := New()
	m.SetFocused(true)
	m.SetResult(r)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	_, cmd := m.Update(key("D"))
	assert.Equal(t, "-- review before executing!\n"+
		`DELETE FROM users WHERE "id" = 2 AND "name" IS NULL AND "extra" = x'ff'`, editorQuery(t, cmd))
}

func TestUpdate_FilterAndDeleteWithoutResult(t *testing.T) {
	m := New()
	m.SetFocused(true)

	_, cmd := m.Update(key("f"))
	require.NotNil(t, cmd)
	assert.Equal(t, StatusNotifyMsg{Message: "Cannot filter: no cell selected"}, cmd())

	_, cmd = m.Update(key("D"))
	require.NotNil(t, cmd)
	assert.Equal(t, StatusNotifyMsg{Message: "No row to delete"}, cmd())
}

func TestKeyColumns(t *testing.T) {
	schema := database.Schema{
		{Name: "b", PrimaryKey: 2},
		{Name: "a", PrimaryKey: 1},
		{Name: "v"},
	}
	assert.Equal(t, []string{"a", "b"}, keyColumns([]string{"v", "b", "a"}, schema))
	// a key column missing from the result falls back to every column
	assert.Equal(t, []string{"b", "v"}, keyColumns([]string{"b", "v"}, schema))
	assert.Equal(t, []string{"v"}, keyColumns([]string{"v"}, schema))
	assert.Equal(t, []string{"v"}, keyColumns([]string{"v"}, nil))
}

func TestSQLLiteral(t *testing.T) {
	assert.Equal(t, "42", sqlLiteral(int64(42)))
	assert.Equal(t, "1.5", sqlLiteral(1.5))
	assert.Equal(t, "TRUE", sqlLiteral(true))
	assert.Equal(t, "'O''Brien'", sqlLiteral("O'Brien"))
	assert.Equal(t, "'x'", sqlLiteral([]byte("x")))
	assert.Equal(t, "x'00ff'", sqlLiteral([]byte{0x00, 0xff}))
	assert.Equal(t, "'2024-01-02T03:04:05Z'", sqlLiteral(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
