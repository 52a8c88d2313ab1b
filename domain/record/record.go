package record

// Record is one entity instance keyed by schema field name. Normalized values
// are string, float64, bool, []string, WeeklySchedule, BusinessHours or nil
// (nullable fields only).
type Record map[string]any

// Collection is the ordered list of records of one domain.
type Collection []Record

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// String returns the string value of a field, or "" when absent or not text.
func (r Record) String(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// Clone returns a deep copy of the collection. A nil collection clones to an
// empty, non-nil one.
func (c Collection) Clone() Collection {
	out := make(Collection, 0, len(c))
	for _, r := range c {
		out = append(out, r.Clone())
	}
	return out
}

// CloneValue deep copies one normalized field value.
func CloneValue(v any) any {
	switch val := v.(type) {
	case []string:
		return append([]string{}, val...)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneValue(item)
		}
		return out
	case WeeklySchedule:
		return val.Clone()
	case BusinessHours:
		return val.Clone()
	default:
		return v
	}
}
