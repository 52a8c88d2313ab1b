package merge

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"clinicsetup/domain/record"
)

// Key names the fields whose values form a record's MergeKey.
type Key struct {
	Fields []string
}

const keySeparator = "\x1f"

// FieldKey builds a Key over the given fields.
func FieldKey(fields ...string) Key {
	return Key{Fields: fields}
}

// Of derives the MergeKey of r. Each value is trimmed, internal whitespace
// runs are collapsed and the text is Unicode case folded. The key is empty
// when every part is empty, meaning the record has no usable identity.
func (k Key) Of(r record.Record) string {
	fold := cases.Fold()
	parts := make([]string, len(k.Fields))
	empty := true
	for i, f := range k.Fields {
		parts[i] = fold.String(strings.Join(strings.Fields(keyText(r[f])), " "))
		if parts[i] != "" {
			empty = false
		}
	}
	if empty {
		return ""
	}
	return strings.Join(parts, keySeparator)
}

func (k Key) has(field string) bool {
	for _, f := range k.Fields {
		if f == field {
			return true
		}
	}
	return false
}

func keyText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
