package errors

import (
	stderrors "errors"
	"fmt"

	"clinicsetup/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of a wrapped
// AppError or pipeline sentinel is kept.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the code of the outermost AppError in the chain, else the
// code of a known pipeline sentinel, else INTERNAL_ERROR.
func GetCode(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	for _, s := range sentinelCodes {
		if stderrors.Is(err, s.err) {
			return s.code
		}
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeInvalidFileType           = "INVALID_FILE_TYPE"
	CodeMissingSheet              = "MISSING_SHEET"
	CodeHeaderNotFound            = "HEADER_NOT_FOUND"
	CodeExtractionRequestFailed   = "EXTRACTION_REQUEST_FAILED"
	CodeExtractionResponseInvalid = "EXTRACTION_RESPONSE_INVALID"
	CodeImportInFlight            = "IMPORT_IN_FLIGHT"
	CodeUnknownDomain             = "UNKNOWN_DOMAIN"
	CodeConfigInvalid             = "CONFIG_INVALID"
	CodeInvalidInput              = "INVALID_INPUT"
	CodeNotFound                  = "NOT_FOUND"
	CodeInternalError             = "INTERNAL_ERROR"
)

var sentinelCodes = []struct {
	err  error
	code string
}{
	{core.ErrInvalidFileType, CodeInvalidFileType},
	{core.ErrMissingSheet, CodeMissingSheet},
	{core.ErrHeaderNotFound, CodeHeaderNotFound},
	{core.ErrExtractionRequestFailed, CodeExtractionRequestFailed},
	{core.ErrExtractionResponseInvalid, CodeExtractionResponseInvalid},
	{core.ErrImportInFlight, CodeImportInFlight},
	{core.ErrUnknownDomain, CodeUnknownDomain},
	{core.ErrNotFound, CodeNotFound},
	{core.ErrInvalidInput, CodeInvalidInput},
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// ImportFailed wraps a terminal pipeline error for the given domain, keeping
// the sentinel in the chain.
func ImportFailed(domain string, cause error) *AppError {
	return &AppError{
		Code:    GetCode(cause),
		Message: fmt.Sprintf("%s import failed", domain),
		Cause:   cause,
	}
}
