package sqlite

// SQL queries for SQLite metadata introspection.
const (
	queryListTables = `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table'
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	// pragma_table_info is the table-valued form of PRAGMA table_info, which
	// lets the table name travel as a bound parameter.
	queryTableInfo = `
		SELECT cid, name, type, "notnull", dflt_value, pk
		FROM pragma_table_info(?)
		ORDER BY cid`
)
