package database

import "time"

// Column represents a table column with its metadata.
type Column struct {
	OrdinalPos int
	Name       string
	DataType   string
	IsNullable bool
	// Default is the default value expression, nil when the column has none.
	Default *string
	// PrimaryKey is the 1-based position within the primary key, 0 otherwise.
	PrimaryKey int
}

// IsPrimary reports whether the column is part of the primary key.
func (c Column) IsPrimary() bool {
	return c.PrimaryKey > 0
}

// Schema is the ordered column metadata of one table.
// Schemas handed out by a session are shared; treat them as read-only.
type Schema []Column

// Column returns the column with the given name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Names returns the column names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Row maps column names to values as returned by the driver.
type Row map[string]any

// QueryResult holds the result of a SQL query execution.
type QueryResult struct {
	Columns  []string
	Rows     []Row
	Duration time.Duration
}
