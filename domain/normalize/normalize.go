package normalize

import (
	"strings"

	"clinicsetup/domain/record"
	"clinicsetup/domain/schema"
)

// Normalizer coerces untrusted extraction output into the exact shape of an
// EntitySchema. It never fails: every malformed value falls back to the
// field default.
type Normalizer struct {
	coercer *Coercer
}

// Stats counts what normalization had to repair.
type Stats struct {
	Candidates int `json:"candidates"`
	Kept       int `json:"kept"`
	// Dropped counts candidates that were not objects or carried no value.
	Dropped   int `json:"dropped"`
	Defaulted int `json:"defaulted"`
	Coerced   int `json:"coerced"`
}

// NewNormalizer creates a normalizer using the given coercer; nil selects
// the default coercion rules.
func NewNormalizer(coercer *Coercer) *Normalizer {
	if coercer == nil {
		coercer = NewCoercer(DefaultCoercionConfig())
	}
	return &Normalizer{coercer: coercer}
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize coerces raw candidates with the default rules.
func Normalize(raw []any, s schema.EntitySchema) record.Collection {
	out, _ := defaultNormalizer.Normalize(raw, s)
	return out
}

// Normalize coerces every candidate into a record satisfying s. Candidates
// that are not JSON objects, or that carry no non-blank value at all, are
// dropped; anything else is kept even when its identity fields are empty.
func (n *Normalizer) Normalize(raw []any, s schema.EntitySchema) (record.Collection, Stats) {
	return n.normalize(raw, s, false)
}

// NormalizeSparse is Normalize without defaults: each record holds only the
// fields the candidate actually supplied with a usable value. Absent, null
// and unusable values are left out so a key-overwrite merge keeps the
// existing value. Complete fills the gaps after merging.
func (n *Normalizer) NormalizeSparse(raw []any, s schema.EntitySchema) (record.Collection, Stats) {
	return n.normalize(raw, s, true)
}

// Complete sets every field missing from a record of c to its default, in
// place, and returns c.
func (n *Normalizer) Complete(c record.Collection, s schema.EntitySchema) record.Collection {
	for _, r := range c {
		for _, f := range s.Fields {
			if _, ok := r[f.Name]; !ok {
				r[f.Name], _ = n.field(nil, f)
			}
		}
	}
	return c
}

func (n *Normalizer) normalize(raw []any, s schema.EntitySchema, sparse bool) (record.Collection, Stats) {
	stats := Stats{Candidates: len(raw)}
	out := make(record.Collection, 0, len(raw))
	for _, item := range raw {
		candidate, ok := item.(map[string]any)
		if !ok || isEmptyCandidate(candidate) {
			stats.Dropped++
			continue
		}
		out = append(out, n.record(candidate, s, sparse, &stats))
	}
	stats.Kept = len(out)
	return out, stats
}

// NormalizeRecord coerces one candidate into a record satisfying s.
func (n *Normalizer) NormalizeRecord(candidate map[string]any, s schema.EntitySchema) record.Record {
	var stats Stats
	return n.record(candidate, s, false, &stats)
}

func (n *Normalizer) record(candidate map[string]any, s schema.EntitySchema, sparse bool, stats *Stats) record.Record {
	out := make(record.Record, len(s.Fields))
	for _, f := range s.Fields {
		raw, present := candidate[f.Name]
		value, res := n.field(raw, f)
		switch {
		case !present || raw == nil:
			stats.Defaulted++
			if sparse {
				continue
			}
		case res != asIs:
			stats.Coerced++
			if sparse && res == fellBack {
				continue
			}
		}
		out[f.Name] = value
	}
	return out
}

// result tells how a raw value became the normalized one.
type result int

const (
	asIs     result = iota
	coerced         // derived from the input, e.g. a synonym or a repaired schedule
	fellBack        // input unusable; the field default was used
)

// field returns the normalized value of raw for f.
func (n *Normalizer) field(raw any, f schema.Field) (any, result) {
	switch f.Type {
	case schema.TypeString:
		if f.HasEnum() {
			return n.enum(raw, f)
		}
		s, ok := n.coercer.String(raw)
		if !ok {
			return stringDefault(f), fellBack
		}
		if s == "" && f.Nullable {
			return nil, asIs
		}
		return s, asIs

	case schema.TypeNumber:
		v, ok := n.coercer.Number(raw)
		if !ok {
			return f.DefaultValue(), fellBack
		}
		return v, asIs

	case schema.TypeBoolean:
		v, ok := n.coercer.Bool(raw)
		if !ok {
			return f.DefaultValue(), fellBack
		}
		// Blank text means "not specified", which takes the field default.
		if s, isString := raw.(string); isString && strings.TrimSpace(s) == "" {
			return f.DefaultValue(), fellBack
		}
		return v, asIs

	case schema.TypeStringArray:
		v, ok := n.coercer.StringSlice(raw)
		if !ok {
			return []string{}, fellBack
		}
		return v, asIs

	case schema.TypeSchedule:
		return repaired(n.schedule(raw))

	case schema.TypeBusinessHours:
		return repaired(n.businessHours(raw))

	default:
		return f.DefaultValue(), fellBack
	}
}

func repaired(v any, ok bool) (any, result) {
	if ok {
		return v, asIs
	}
	return v, coerced
}

func stringDefault(f schema.Field) any {
	if v := f.DefaultValue(); v != nil {
		return v
	}
	if f.Nullable {
		return nil
	}
	return ""
}

// enum maps a value onto the field enumeration: exact match, then the
// synonym table, then a case and separator insensitive match, then the
// default.
func (n *Normalizer) enum(raw any, f schema.Field) (any, result) {
	s, ok := n.coercer.String(raw)
	if !ok || s == "" {
		return stringDefault(f), fellBack
	}
	for _, e := range f.Enum {
		if s == e {
			return e, asIs
		}
	}
	lower := strings.ToLower(strings.Join(strings.Fields(s), " "))
	if mapped, ok := f.Synonyms[lower]; ok {
		return mapped, coerced
	}
	key := enumKey(lower)
	for _, e := range f.Enum {
		if enumKey(e) == key {
			return e, coerced
		}
	}
	return stringDefault(f), fellBack
}

func enumKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '/':
			return -1
		}
		return r
	}, strings.ToLower(s))
}

func isEmptyCandidate(candidate map[string]any) bool {
	for _, v := range candidate {
		if !isBlankValue(v) {
			return false
		}
	}
	return true
}

func isBlankValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
