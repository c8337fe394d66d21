// Package qerr carries stable error codes through the sync pipeline so that
// callers (the scheduler, HTTP routes, the CLI) can classify failures without
// string matching.
package qerr

import (
	"errors"
	"fmt"
)

// Code represents a stable error category that callers can switch on.
type Code string

const (
	CodeUnknown          Code = "unknown"
	CodeNotFound         Code = "not_found"
	CodeNoTokens         Code = "no_tokens"
	CodeStoreUnavailable Code = "store_unavailable"
	CodeRefreshFailed    Code = "refresh_failed"
	CodeExchangeFailed   Code = "exchange_failed"
	CodeInvalidState     Code = "invalid_state"
	CodeFetchFailed      Code = "fetch_failed"
	CodeUpsertFailed     Code = "upsert_failed"
	CodeDirectoryFailed  Code = "directory_failed"
)

// Error is a simple value type that carries a Code plus the underlying error.
type Error struct {
	Code Code
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// New wraps an error with the provided code. If err is nil a nil is returned.
func New(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, err: err}
}

// Newf builds a coded error from a format string.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, err: fmt.Errorf(format, args...)}
}

// IsCode reports whether any error in err's chain carries code.
func IsCode(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.err
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeUnknown.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}
