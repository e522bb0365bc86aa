package ingest

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes fatal import failures. Per-line failures during
// native parsing are not errors at this level - they are logged and the
// line is skipped.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unknown format hint or a
	// document shape the format does not allow.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeMissingRecords indicates a native import that produced zero
	// Event-kind records.
	ErrCodeMissingRecords ErrorCode = "MISSING_REQUIRED_RECORDS"

	// ErrCodeStructuralIO indicates an unreadable file or a structurally
	// invalid CSV stream.
	ErrCodeStructuralIO ErrorCode = "STRUCTURAL_IO"

	// ErrCodeSchema indicates JSON that parsed but violated the event
	// schema.
	ErrCodeSchema ErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeChecksum indicates a stored checksum that does not match the
	// record content (only with checksum verification enabled).
	ErrCodeChecksum ErrorCode = "CHECKSUM_MISMATCH"
)

// ImportError is the single wrapped error surfaced for a failed import.
type ImportError struct {
	Code    ErrorCode
	Message string
	Line    int // 1-based line/row number when applicable, else 0
	Err     error
}

func (e *ImportError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s (line %d)", msg, e.Line)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ImportError) Unwrap() error { return e.Err }

// CodeOf extracts the error code from a wrapped import error, or "" if the
// error is not an ImportError.
func CodeOf(err error) ErrorCode {
	var ie *ImportError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

// IsMissingRecords reports whether err is a missing-required-records
// failure. Uses errors.As to handle wrapped errors.
func IsMissingRecords(err error) bool { return CodeOf(err) == ErrCodeMissingRecords }

// IsChecksumMismatch reports whether err is a checksum verification
// failure.
func IsChecksumMismatch(err error) bool { return CodeOf(err) == ErrCodeChecksum }

func newError(code ErrorCode, message string) *ImportError {
	return &ImportError{Code: code, Message: message}
}

func wrapError(code ErrorCode, message string, err error) *ImportError {
	return &ImportError{Code: code, Message: message, Err: err}
}
