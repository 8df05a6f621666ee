package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"trailing semicolon", "SELECT * FROM Users;", "Users"},
		{"lowercase with where", "select a from widgets where a>1", "widgets"},
		{"mixed case keyword", "SELECT id FrOm orders LIMIT 5", "orders"},
		{"newline after name", "SELECT *\nFROM\n\tlogs\nWHERE x = 1", "logs"},
		{"tab separated", "SELECT * FROM items\tORDER BY id", "items"},
		{"no space before semicolon", "select * from t;", "t"},
		{"only one semicolon stripped", "select * from t;;", "t;"},
		{"first from wins", "SELECT * FROM a JOIN b ON a.id = b.id", "a"},
		{"join keeps first table", "SELECT * FROM a, b", "a,"},
		{"qualified name kept verbatim", "SELECT * FROM main.users", "main.users"},
		{"from inside identifier", "SELECT fromage FROM cheese", "age"},
		{"subquery", "SELECT * FROM (SELECT 1)", "(SELECT"},
		{"no from", "INSERT INTO t VALUES (1)", ""},
		{"from at end", "SELECT 1 FROM", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TableName(tt.query))
		})
	}
}

func TestIndexFold(t *testing.T) {
	assert.Equal(t, 0, indexFold("FROM", "from"))
	assert.Equal(t, 4, indexFold("abc FrOm", "from"))
	assert.Equal(t, -1, indexFold("fro", "from"))
	assert.Equal(t, -1, indexFold("", "from"))
}
