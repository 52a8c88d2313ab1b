package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clinicsetup/domain/core"
	"clinicsetup/domain/sheet"
	"clinicsetup/internal"
	"clinicsetup/ports"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader turns uploaded spreadsheet bytes into raw, typed sheets.
// It handles .xlsx/.xlsm through excelize and .csv through encoding/csv.
type WorkbookReader struct {
	logger *internal.Logger
}

var _ ports.WorkbookReader = (*WorkbookReader)(nil)

// NewWorkbookReader creates a reader; a nil logger selects the default one.
func NewWorkbookReader(logger *internal.Logger) *WorkbookReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &WorkbookReader{logger: logger}
}

// FileType classifies a filename by extension: "xlsx", "csv" or "" when
// unsupported.
func FileType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".csv":
		return "csv"
	default:
		return ""
	}
}

// Supports reports whether filename has a readable extension.
func (r *WorkbookReader) Supports(filename string) bool {
	return FileType(filename) != ""
}

// Read parses data according to the extension of filename.
func (r *WorkbookReader) Read(filename string, data []byte) (*sheet.Workbook, error) {
	startTime := time.Now()

	var (
		wb  *sheet.Workbook
		err error
	)
	switch FileType(filename) {
	case "xlsx":
		wb, err = r.readExcel(filename, data)
	case "csv":
		wb, err = r.readCSV(filename, data)
	default:
		return nil, core.NewInvalidFileTypeError(filename)
	}
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, core.NewMissingSheetError("first")
	}

	r.logger.Debug("[WorkbookReader] %s read in %.2fms (sheets: %s)",
		filename, float64(time.Since(startTime).Nanoseconds())/1e6, strings.Join(wb.SheetNames(), ", "))
	return wb, nil
}

// ReadFile reads a workbook from disk.
func (r *WorkbookReader) ReadFile(path string) (*sheet.Workbook, error) {
	if FileType(path) == "" {
		return nil, core.NewInvalidFileTypeError(filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.Read(filepath.Base(path), data)
}

func (r *WorkbookReader) readExcel(filename string, data []byte) (*sheet.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s could not be opened as a workbook: %v", core.ErrInvalidFileType, filename, err)
	}
	defer f.Close()

	wb := &sheet.Workbook{Filename: filename}
	for _, name := range f.GetSheetList() {
		s, err := r.readExcelSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		r.logger.Trace("[WorkbookReader] sheet %q: %d rows", name, len(s.Rows))
		wb.Sheets = append(wb.Sheets, s)
	}
	return wb, nil
}

func (r *WorkbookReader) readExcelSheet(f *excelize.File, name string) (*sheet.RawSheet, error) {
	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	formatted, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}

	dates := dateStyles{file: f, known: map[int]bool{}}
	rows := make([]sheet.Row, len(raw))
	for i, rawRow := range raw {
		row := make(sheet.Row, len(rawRow))
		for j, value := range rawRow {
			if value == "" {
				continue
			}
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(name, cellRef)
			if err != nil {
				return nil, err
			}
			row[j] = typedCell(cellType, value, formattedAt(formatted, i, j), dates.isDate(name, cellRef))
		}
		rows[i] = row
	}
	return &sheet.RawSheet{Name: name, Rows: rows}, nil
}

// typedCell converts one cell using its excelize type. Numbers stored
// without an explicit type attribute report CellTypeUnset. Date formatted
// numbers keep their display text.
func typedCell(cellType excelize.CellType, raw, formatted string, isDate bool) sheet.Cell {
	switch cellType {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if isDate && formatted != "" {
			return formatted
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	case excelize.CellTypeDate:
		if formatted != "" {
			return formatted
		}
		return raw
	default:
		return raw
	}
}

func formattedAt(rows [][]string, i, j int) string {
	if i < len(rows) && j < len(rows[i]) {
		return rows[i][j]
	}
	return ""
}

// dateStyles caches whether a cell style renders numbers as dates.
type dateStyles struct {
	file  *excelize.File
	known map[int]bool
}

func (d dateStyles) isDate(sheetName, cellRef string) bool {
	styleID, err := d.file.GetCellStyle(sheetName, cellRef)
	if err != nil || styleID == 0 {
		return false
	}
	if v, ok := d.known[styleID]; ok {
		return v
	}
	style, err := d.file.GetStyle(styleID)
	isDate := err == nil && style != nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	d.known[styleID] = isDate
	return isDate
}

func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22, numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47, numFmt >= 50 && numFmt <= 58:
		return true
	}
	if custom == nil {
		return false
	}
	format := strings.ToLower(*custom)
	for _, token := range []string{"yy", "dd", "d/", "/d", "mmm", "h:mm"} {
		if strings.Contains(format, token) {
			return true
		}
	}
	return false
}

// readCSV reads a delimited file as one sheet named after the file stem.
// CSV cells carry no type information and stay strings.
func (r *WorkbookReader) readCSV(filename string, data []byte) (*sheet.Workbook, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []sheet.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not valid CSV: %v", core.ErrInvalidFileType, filename, err)
		}
		row := make(sheet.Row, len(record))
		for i, value := range record {
			if value != "" {
				row[i] = value
			}
		}
		rows = append(rows, row)
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return &sheet.Workbook{
		Filename: filename,
		Sheets:   []*sheet.RawSheet{{Name: stem, Rows: rows}},
	}, nil
}
