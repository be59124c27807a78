package zipsync

import (
	"fmt"

	"github.com/dendrascience/zipsync/util"
)

// Error is the single failure type returned by Compress and Uncompress.
// Detail holds the flattened cause chain, one message per line.
type Error struct {
	Code    string
	Message string
	Detail  string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok && e != nil && t != nil {
		return e.Code == t.Code
	}
	return false
}

// wrapError creates a new error with the code of base, cause attached and the
// cause chain flattened into Detail.
func wrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Detail:  util.Flatten(cause),
		Cause:   cause,
	}
}

// Predefined errors
var (
	// ErrConflict is returned when the destination archive exists and the
	// existing archive action is ArchiveError.
	ErrConflict = &Error{Code: "ARCHIVE_CONFLICT", Message: "destination archive already exists"}

	// ErrCompression wraps any failure while creating or updating an archive.
	ErrCompression = &Error{Code: "COMPRESSION_FAILED", Message: "compression failed"}

	// ErrExtraction wraps any failure while extracting an archive.
	ErrExtraction = &Error{Code: "EXTRACTION_FAILED", Message: "extraction failed"}
)
