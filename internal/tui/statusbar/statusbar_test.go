package statusbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHints(t *testing.T) {
	h := Hints()
	assert.Contains(t, h, "Ctrl+E")
	assert.Contains(t, h, "Execute")
	assert.Contains(t, h, "Filter/Delete")
}

func TestView(t *testing.T) {
	m := New()
	m.SetWidth(200)
	assert.Contains(t, m.View(), "disconnected")

	m.SetConnected(true, "app.db")
	m.SetActivePane("results")
	m.SetCachedTables(2)
	view := m.View()
	assert.Contains(t, view, "app.db")
	assert.Contains(t, view, "[results] 2 cached")
	assert.Contains(t, view, "Copy row")

	m.SetMessage("Exported 3 rows")
	view = m.View()
	assert.Contains(t, view, "Exported 3 rows")
	assert.NotContains(t, view, "Copy row")
}
