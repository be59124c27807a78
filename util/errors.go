package util

import (
	"errors"
	"strings"
)

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// File and directory errors
	ErrExpectedDirectory = errors.New("expected directory but got file")

	// Archive errors
	ErrDuplicateEntry  = errors.New("archive entry already exists")
	ErrEntryNotFound   = errors.New("archive entry not found")
	ErrUnsafeEntryPath = errors.New("archive entry path escapes destination")
	ErrSessionClosed   = errors.New("archive session is closed")
	ErrArchiveInSource = errors.New("archive path contains the source directory")
)

// Flatten renders err and every cause beneath it, one message per line.
// Causes are visited depth-first through Unwrap() error and Unwrap() []error.
// A wrapping error contributes only its own text, without the ": cause" suffix
// that fmt.Errorf("...: %w") appends, so each cause appears once.
//
// Flatten never panics. A nil pointer stored in an error interface is
// rendered as "<nil>"; an Unwrap method that panics ends the output there.
func Flatten(err error) string {
	var sb strings.Builder
	func() {
		defer func() {
			if recover() != nil {
				writeLine(&sb, "<nil>")
			}
		}()
		flatten(&sb, err)
	}()
	return sb.String()
}

func flatten(sb *strings.Builder, err error) {
	if err == nil {
		return
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		// errors.Join only concatenates its children
		for _, child := range u.Unwrap() {
			flatten(sb, child)
		}
	case interface{ Unwrap() error }:
		cause := u.Unwrap()
		writeLine(sb, ownMessage(err, cause))
		flatten(sb, cause)
	default:
		writeLine(sb, message(err))
	}
}

func ownMessage(err, cause error) string {
	msg := message(err)
	if cause == nil {
		return msg
	}
	causeMsg := message(cause)
	if msg == causeMsg {
		return ""
	}
	return strings.TrimSuffix(msg, ": "+causeMsg)
}

// message returns err.Error(), or "<nil>" when the method panics on a nil
// receiver.
func message(err error) (msg string) {
	defer func() {
		if recover() != nil {
			msg = "<nil>"
		}
	}()
	return err.Error()
}

func writeLine(sb *strings.Builder, msg string) {
	if msg == "" {
		return
	}
	sb.WriteString(msg)
	sb.WriteByte('\n')
}
