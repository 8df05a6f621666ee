package results

import (
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/joacominatel/sqlcli/internal/database"
)

// FormatValue renders a driver value for display.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if utf8.Valid(v) {
			return string(v)
		}
		return "x'" + hex.EncodeToString(v) + "'"
	case time.Time:
		return v.Format(time.RFC3339)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ColumnLabel is the header of a result column: its name, followed by the
// declared type when the schema knows the column and a key marker for
// primary key columns.
func ColumnLabel(name string, schema database.Schema) string {
	col, ok := schema.Column(name)
	if !ok || col.DataType == "" {
		return name
	}
	label := name + " " + col.DataType
	if col.IsPrimary() {
		label += " *"
	}
	return label
}
