// Package errcode enumerates error codes used across mganno.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBQueryError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError

	// Request validation errors
	BadAccessionError
	BadTypeError
	BadSourceError
	BadFormatError
	BadCutoffError
	BadBodyError

	// Lookup errors
	JobNotFoundError
	JobForbiddenError

	// Pipeline errors
	CursorOpenError
	AnnotationLookupError
	FilterSetError
	BlobOpenError
	BlobReadError
	StreamAbortedError

	// Load errors
	LoadFileError
	LoadParseError
	LoadCopyError
)
