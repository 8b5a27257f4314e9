package iodb

import (
	"fmt"

	"github.com/gnames/gnlib"
)

// ConnectionError is returned when database connection fails.
type ConnectionError struct {
	error
	gnlib.MessageBase
}

// NewConnectionError creates a connection error with user-friendly message.
func NewConnectionError(host string, port int, database, user string, cause error) error {
	userBase := gnlib.NewMessage(
		`<title>Database Connection Failed</title>

<warning>Could not connect to PostgreSQL database.</warning>

<em>Possible causes:</em>
  • PostgreSQL is not running
  • Database configuration is incorrect
  • Network connectivity issues

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>

  3. Check your configuration file:
     <em>~/.config/mganno/config.yaml</em>

  4. Review connection settings:
     Host: %s
     Port: %d
     Database: %s
     User: %s
`,
		[]any{
			host, port,
			host, user,
			host, port, database, user,
		},
	)

	return ConnectionError{
		error:       fmt.Errorf("failed to connect to %s:%d/%s: %w", host, port, database, cause),
		MessageBase: userBase,
	}
}

// NotConnectedError is returned when operations run before Connect.
type NotConnectedError struct {
	error
	gnlib.MessageBase
}

// NewNotConnectedError creates an error for missing database connection.
func NewNotConnectedError() error {
	userBase := gnlib.NewMessage(
		`<title>Database Not Connected</title>

<warning>An operation was attempted before connecting to the database.</warning>
`,
		nil,
	)

	return NotConnectedError{
		error:       fmt.Errorf("database not connected"),
		MessageBase: userBase,
	}
}

// QueryError is returned when a management query fails.
type QueryError struct {
	error
	gnlib.MessageBase
}

// NewQueryError creates an error wrapping a failed management query.
func NewQueryError(op string, cause error) error {
	userBase := gnlib.NewMessage(
		`<title>Database Query Failed</title>

<warning>Operation '%s' failed.</warning>
`,
		[]any{op},
	)

	return QueryError{
		error:       fmt.Errorf("%s: %w", op, cause),
		MessageBase: userBase,
	}
}
