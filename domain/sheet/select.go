package sheet

import "clinicsetup/domain/core"

// SheetSpec declares one sheet a domain reads from a workbook.
type SheetSpec struct {
	// Key is the table kind sent to extraction, e.g. "discounts".
	Key string
	// Name is the preferred sheet name. When it is empty or absent the
	// sheet at Index is used.
	Name     string
	Index    int
	Optional bool
	// Header locates the header row; an empty spec marks a headerless sheet.
	Header HeaderSpec
}

func (s SheetSpec) label() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Key
}

// Select finds the sheet described by spec. An absent optional sheet yields
// nil with no error.
func (w *Workbook) Select(spec SheetSpec) (*RawSheet, error) {
	if spec.Name != "" {
		if s, ok := w.SheetByName(spec.Name); ok {
			return s, nil
		}
	}
	if s, ok := w.SheetAt(spec.Index); ok {
		return s, nil
	}
	if spec.Optional {
		return nil, nil
	}
	return nil, core.NewMissingSheetError(spec.label())
}

// TableFor selects and slices the sheet described by spec. The resulting
// table carries spec.Key as its kind.
func TableFor(w *Workbook, spec SheetSpec) (Table, error) {
	s, err := w.Select(spec)
	if err != nil {
		return Table{}, err
	}
	header := spec.Header
	if header.Kind == "" {
		header.Kind = spec.label()
	}
	table, err := Slice(s, header)
	if err != nil {
		return Table{}, err
	}
	table.Kind = spec.Key
	return table, nil
}
