package merge

import (
	"reflect"

	"clinicsetup/domain/record"
)

// Policy reconciles an incoming collection with the existing one. Merge
// never mutates its arguments.
type Policy interface {
	Name() string
	Merge(existing, incoming record.Collection) record.Collection
}

// EmptyStringPolicy decides whether an incoming "" replaces a present
// existing value during a key-overwrite merge. A nil incoming value never
// does.
type EmptyStringPolicy int

const (
	EmptyStringKeepsExisting EmptyStringPolicy = iota
	EmptyStringOverwrites
)

func (p EmptyStringPolicy) String() string {
	if p == EmptyStringOverwrites {
		return "empty_string_overwrites"
	}
	return "empty_string_keeps_existing"
}

// KeyOverwrite folds incoming records into existing records with the same
// key, field by field. Existing records keep their position and their
// spelling of the key fields; new keys append in arrival order.
type KeyOverwrite struct {
	Key         Key
	EmptyString EmptyStringPolicy
}

func (p KeyOverwrite) Name() string { return "key_overwrite" }

func (p KeyOverwrite) Merge(existing, incoming record.Collection) record.Collection {
	out := make(record.Collection, 0, len(existing)+len(incoming))
	index := make(map[string]int, len(existing)+len(incoming))

	for _, r := range existing {
		key := p.Key.Of(r)
		if key == "" {
			out = append(out, r.Clone())
			continue
		}
		if i, ok := index[key]; ok {
			p.overlay(out[i], r)
			continue
		}
		index[key] = len(out)
		out = append(out, r.Clone())
	}
	for _, r := range incoming {
		key := p.Key.Of(r)
		if key == "" {
			if !matchesAny(existing, r) {
				out = append(out, r.Clone())
			}
			continue
		}
		if i, ok := index[key]; ok {
			p.overlay(out[i], r)
			continue
		}
		index[key] = len(out)
		out = append(out, r.Clone())
	}
	return out
}

// overlay copies incoming fields onto dst. dst is owned by the merge result.
func (p KeyOverwrite) overlay(dst, incoming record.Record) {
	for field, v := range incoming {
		if v == nil || p.Key.has(field) {
			continue
		}
		if s, ok := v.(string); ok && s == "" && p.EmptyString == EmptyStringKeepsExisting && present(dst[field]) {
			continue
		}
		dst[field] = record.CloneValue(v)
	}
}

func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

// KeySkipDuplicate keeps existing records untouched and appends only
// incoming records whose key is not yet in the collection.
type KeySkipDuplicate struct {
	Key Key
}

func (p KeySkipDuplicate) Name() string { return "key_skip_duplicate" }

func (p KeySkipDuplicate) Merge(existing, incoming record.Collection) record.Collection {
	out := existing.Clone()
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, r := range existing {
		if key := p.Key.Of(r); key != "" {
			seen[key] = struct{}{}
		}
	}
	for _, r := range incoming {
		key := p.Key.Of(r)
		if key == "" {
			if !matchesAny(existing, r) {
				out = append(out, r.Clone())
			}
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r.Clone())
	}
	return out
}

// Concatenate appends incoming after existing with no identity at all.
type Concatenate struct{}

func (Concatenate) Name() string { return "concatenate" }

func (Concatenate) Merge(existing, incoming record.Collection) record.Collection {
	out := make(record.Collection, 0, len(existing)+len(incoming))
	out = append(out, existing.Clone()...)
	return append(out, incoming.Clone()...)
}

// matchesAny reports whether some record of c carries every field of r with
// an equal value. Incoming records without a key are only deduplicated
// against existing records that way; existing records are always kept.
func matchesAny(c record.Collection, r record.Record) bool {
	for _, candidate := range c {
		if matches(candidate, r) {
			return true
		}
	}
	return false
}

func matches(candidate, r record.Record) bool {
	for field, v := range r {
		cv, ok := candidate[field]
		if !ok || !reflect.DeepEqual(cv, v) {
			return false
		}
	}
	return true
}
