package ioload

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mganno/mganno/pkg/errcode"
)

// FileError creates an error for unreadable dump files.
func FileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.LoadFileError,
		Msg:  fmt.Sprintf("Cannot read dump file %s", path),
		Vars: nil,
		Err:  fmt.Errorf("read %s: %w", path, err),
	}
}

// ParseError creates an error for malformed dump lines.
func ParseError(path string, line int, err error) error {
	return &gn.Error{
		Code: errcode.LoadParseError,
		Msg:  fmt.Sprintf("Malformed record in %s (line %d)", path, line),
		Vars: nil,
		Err:  fmt.Errorf("parse %s:%d: %w", path, line, err),
	}
}

// CopyError creates an error for failed bulk inserts.
func CopyError(table string, err error) error {
	return &gn.Error{
		Code: errcode.LoadCopyError,
		Msg:  fmt.Sprintf("Bulk insert into %s failed", table),
		Vars: nil,
		Err:  fmt.Errorf("copy into %s: %w", table, err),
	}
}

// BadAccessionError creates an error for metagenome ids that do not
// match the mgm<id>.<version> pattern.
func BadAccessionError(accession string) error {
	return &gn.Error{
		Code: errcode.BadAccessionError,
		Msg:  fmt.Sprintf("Invalid metagenome id '%s'", accession),
		Vars: nil,
		Err:  fmt.Errorf("bad accession %q", accession),
	}
}

// NotConnectedError creates an error for loads attempted before
// connecting to the database.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Load attempted without database connection",
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}
