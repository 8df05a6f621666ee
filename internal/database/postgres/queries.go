package postgres

// SQL queries for PostgreSQL metadata introspection. Tables resolve against
// current_schema(), the first schema on the search path.
const (
	queryListTables = `
		SELECT table_name::text
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		  AND table_type = 'BASE TABLE'
		ORDER BY table_name`

	queryTableInfo = `
		SELECT
			c.ordinal_position::int,
			c.column_name::text,
			c.data_type::text,
			c.is_nullable::text,
			c.column_default::text,
			COALESCE(pk.position, 0)::int AS pk_position
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT ku.column_name, ku.ordinal_position AS position
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage ku
				ON tc.constraint_name = ku.constraint_name
				AND tc.table_schema = ku.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = current_schema()
				AND tc.table_name = $1
		) pk ON c.column_name = pk.column_name
		WHERE c.table_schema = current_schema()
		  AND c.table_name = $1
		ORDER BY c.ordinal_position`
)
