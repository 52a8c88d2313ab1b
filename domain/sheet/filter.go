package sheet

// IsBlankRow reports whether every cell of a row is nil or blank text.
func IsBlankRow(row Row) bool {
	for _, cell := range row {
		if !IsBlank(cell) {
			return false
		}
	}
	return true
}

// Filter drops structurally empty rows and keeps the rest, unchanged and in
// their original order.
func Filter(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if IsBlankRow(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// Slice builds the Table for a sheet. With a header spec the header row is
// located and only rows after it are kept. Without one, the first non-blank
// row is treated as header context.
func Slice(s *RawSheet, spec HeaderSpec) (Table, error) {
	table := Table{Kind: spec.Kind, HeaderIndex: -1, Header: Row{}, Rows: []Row{}}
	if s == nil {
		return table, nil
	}

	if !spec.IsEmpty() {
		idx, err := Locate(s, spec)
		if err != nil {
			return table, err
		}
		table.HeaderIndex = idx
		table.Header = s.Rows[idx]
		table.Rows = Filter(s.Rows[idx+1:])
		return table, nil
	}

	for idx, row := range s.Rows {
		if IsBlankRow(row) {
			continue
		}
		table.HeaderIndex = idx
		table.Header = row
		table.Rows = Filter(s.Rows[idx+1:])
		return table, nil
	}
	return table, nil
}
