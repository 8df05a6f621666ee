package app

import "fmt"

// ErrConnection represents a database connection error.
type ErrConnection struct {
	Cause error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrExecution means the SQL statement itself failed.
type ErrExecution struct {
	Query string
	Cause error
}

func (e *ErrExecution) Error() string {
	return fmt.Sprintf("query error: %v", e.Cause)
}

func (e *ErrExecution) Unwrap() error {
	return e.Cause
}

// ErrIntrospection means the schema lookup for the derived table failed.
type ErrIntrospection struct {
	Table string
	Cause error
}

func (e *ErrIntrospection) Error() string {
	return fmt.Sprintf("schema error for table %q: %v", e.Table, e.Cause)
}

func (e *ErrIntrospection) Unwrap() error {
	return e.Cause
}

// ErrConfig represents a configuration error.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}
