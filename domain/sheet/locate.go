package sheet

import (
	"fmt"
	"strings"

	"clinicsetup/domain/core"
)

// HeaderNotFoundError reports that no row of a sheet carried every label of
// its HeaderSpec.
type HeaderNotFoundError struct {
	Kind string
	// Missing lists the labels absent from the closest candidate row.
	Missing []string
}

func (e *HeaderNotFoundError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("could not find required headers in the %s sheet", e.Kind)
	}
	return fmt.Sprintf("could not find required headers in the %s sheet (missing: %s)",
		e.Kind, strings.Join(e.Missing, ", "))
}

func (e *HeaderNotFoundError) Unwrap() error {
	return core.ErrHeaderNotFound
}

// NormalizeLabel trims a label and collapses internal whitespace runs to a
// single space. Case is preserved.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Locate returns the index of the first row that contains every label of
// spec as the normalized text of some cell. Labels may sit in any column and
// in any order. Rows before the header are ignored.
func Locate(s *RawSheet, spec HeaderSpec) (int, error) {
	required := make([]string, 0, len(spec.Labels))
	for _, label := range spec.Labels {
		if n := NormalizeLabel(label); n != "" {
			required = append(required, n)
		}
	}

	var bestMissing []string
	if s == nil {
		return -1, &HeaderNotFoundError{Kind: spec.Kind, Missing: required}
	}

	for idx, row := range s.Rows {
		present := make(map[string]struct{}, len(row))
		for _, cell := range row {
			if text := NormalizeLabel(CellText(cell)); text != "" {
				present[text] = struct{}{}
			}
		}

		var missing []string
		for _, label := range required {
			if _, ok := present[label]; !ok {
				missing = append(missing, label)
			}
		}
		if len(missing) == 0 {
			return idx, nil
		}
		if bestMissing == nil || len(missing) < len(bestMissing) {
			bestMissing = missing
		}
	}

	if bestMissing == nil {
		bestMissing = required
	}
	return -1, &HeaderNotFoundError{Kind: spec.Kind, Missing: bestMissing}
}
