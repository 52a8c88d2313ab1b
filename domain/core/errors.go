package core

import (
	"errors"
	"fmt"
)

// Import pipeline errors. Every failure of an import is terminal and is
// reported through one of these sentinels so callers can use errors.Is.
var (
	ErrInvalidFileType           = errors.New("invalid file type")
	ErrMissingSheet              = errors.New("missing sheet")
	ErrHeaderNotFound            = errors.New("header row not found")
	ErrExtractionRequestFailed   = errors.New("extraction request failed")
	ErrExtractionResponseInvalid = errors.New("extraction response invalid")

	// Orchestration errors
	ErrImportInFlight  = errors.New("import already in progress")
	ErrUnknownDomain   = errors.New("unknown domain")
	ErrNotFound        = errors.New("resource not found")
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrInvalidInput    = errors.New("invalid input")
)

// NewMissingSheetError names the sheet that could not be found.
func NewMissingSheetError(sheet string) error {
	return fmt.Errorf("%w: %s sheet not found in the workbook", ErrMissingSheet, sheet)
}

// NewInvalidFileTypeError names the rejected file.
func NewInvalidFileTypeError(filename string) error {
	return fmt.Errorf("%w: %q is not a supported spreadsheet (.xlsx, .xlsm or .csv)", ErrInvalidFileType, filename)
}

// NewUnknownDomainError names the rejected domain.
func NewUnknownDomainError(domain string) error {
	return fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
}

// IsImportError reports whether err is one of the terminal import failures.
func IsImportError(err error) bool {
	return errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrMissingSheet) ||
		errors.Is(err, ErrHeaderNotFound) ||
		errors.Is(err, ErrExtractionRequestFailed) ||
		errors.Is(err, ErrExtractionResponseInvalid)
}

// IsExtractionError reports whether err came from the extraction collaborator.
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrExtractionRequestFailed) ||
		errors.Is(err, ErrExtractionResponseInvalid)
}
