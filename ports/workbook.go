package ports

import "clinicsetup/domain/sheet"

// WorkbookReader parses an uploaded spreadsheet into raw sheets.
type WorkbookReader interface {
	// Supports reports whether filename has a readable spreadsheet type.
	Supports(filename string) bool
	Read(filename string, data []byte) (*sheet.Workbook, error)
}
