package errors

import (
	"errors"
	"fmt"
	"maps"
)

// Code categorizes an engine error
type Code string

const (
	// CodeUnknown is used for errors that did not originate in this module
	CodeUnknown Code = "unknown"

	// CodeInvalidArgument means the caller passed something unusable
	CodeInvalidArgument Code = "invalid_argument"

	// CodeNotFound means a document, token or bonus could not be resolved
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists means a stored record would be overwritten
	CodeAlreadyExists Code = "already_exists"

	// CodePermissionDenied means the user cannot edit the resource being spent
	CodePermissionDenied Code = "permission_denied"

	// CodeInternal indicates a bug or a broken collaborator
	CodeInternal Code = "internal"

	// CodeValidation means stored bonus data failed its schema
	CodeValidation Code = "validation"

	// CodeInsufficientResource means a consuming bonus cannot be paid for
	CodeInsufficientResource Code = "insufficient_resource"

	// CodeScript means a custom script failed to compile or run
	CodeScript Code = "script"
)

// Error is a coded error with optional cause and metadata
type Error struct {
	Code    Code
	Message string
	Cause   error
	Meta    map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMeta attaches a metadata value and returns the same error
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// New creates an error with the given code
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap adds context to err, keeping the code of an existing *Error
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var coded *Error
	if errors.As(err, &coded) {
		return &Error{
			Code:    coded.Code,
			Message: message,
			Cause:   err,
			Meta:    maps.Clone(coded.Meta),
		}
	}

	return &Error{Code: CodeUnknown, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WrapWithCode wraps err and overrides its code
func WrapWithCode(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, message)
	wrapped.Code = code
	return wrapped
}

func NotFound(message string) *Error { return New(CodeNotFound, message) }

func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

func InvalidArgument(message string) *Error { return New(CodeInvalidArgument, message) }

func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

func AlreadyExistsf(format string, args ...any) *Error {
	return Newf(CodeAlreadyExists, format, args...)
}

func Validationf(format string, args ...any) *Error { return Newf(CodeValidation, format, args...) }

func PermissionDeniedf(format string, args ...any) *Error {
	return Newf(CodePermissionDenied, format, args...)
}

func InsufficientResourcef(format string, args ...any) *Error {
	return Newf(CodeInsufficientResource, format, args...)
}

func Internalf(format string, args ...any) *Error { return Newf(CodeInternal, format, args...) }

// Is reports whether err carries the given code anywhere in its chain
func Is(err error, code Code) bool {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code == code
	}
	return false
}

func IsNotFound(err error) bool { return Is(err, CodeNotFound) }

func IsValidation(err error) bool { return Is(err, CodeValidation) }

func IsInsufficientResource(err error) bool { return Is(err, CodeInsufficientResource) }

// GetCode returns the code of err, or CodeUnknown
func GetCode(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// GetMeta returns the metadata of err, if any
func GetMeta(err error) map[string]any {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Meta
	}
	return nil
}
