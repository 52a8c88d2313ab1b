package sheet

import (
	"strconv"
	"strings"
)

// Cell is one spreadsheet value: string, float64, bool or nil.
type Cell = any

// Row is an ordered sequence of cells.
type Row []Cell

// RawSheet is one page of a workbook with no schema attached.
type RawSheet struct {
	Name string `json:"name"`
	Rows []Row  `json:"rows"`
}

// Workbook is the ordered set of sheets read from one uploaded file.
type Workbook struct {
	Filename string      `json:"filename"`
	Sheets   []*RawSheet `json:"sheets"`
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// SheetByName returns the sheet with an exact name match, falling back to a
// case-insensitive match on the trimmed name.
func (w *Workbook) SheetByName(name string) (*RawSheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(name))
	for _, s := range w.Sheets {
		if strings.ToLower(strings.TrimSpace(s.Name)) == want {
			return s, true
		}
	}
	return nil, false
}

// SheetAt returns the sheet at a zero-based position.
func (w *Workbook) SheetAt(index int) (*RawSheet, bool) {
	if index < 0 || index >= len(w.Sheets) {
		return nil, false
	}
	return w.Sheets[index], true
}

// HeaderSpec is the set of column labels that identifies the header row of
// one sheet kind.
type HeaderSpec struct {
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
}

// IsEmpty reports whether the spec requires no labels.
func (h HeaderSpec) IsEmpty() bool {
	return len(h.Labels) == 0
}

// Table is the filtered content of one sheet: the header row for column
// context and the non-blank rows after it.
type Table struct {
	Kind        string `json:"sheet"`
	HeaderIndex int    `json:"-"`
	Header      Row    `json:"header"`
	Rows        []Row  `json:"rows"`
}

// CellText renders a cell the way it would read in the spreadsheet.
func CellText(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// IsBlank reports whether a cell is nil or whitespace-only text.
func IsBlank(c Cell) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
