package schema

import "strings"

// FieldType is the primitive type of one entity field.
type FieldType string

const (
	TypeString      FieldType = "string"
	TypeNumber      FieldType = "number"
	TypeBoolean     FieldType = "boolean"
	TypeStringArray FieldType = "array"

	// TypeSchedule is a nested weekly schedule object.
	TypeSchedule FieldType = "schedule"

	// TypeBusinessHours is a nested per-day open/close object.
	TypeBusinessHours FieldType = "business_hours"
)

// Field describes one entity field.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	// Nullable fields keep null when the value is missing instead of taking
	// the type default.
	Nullable bool
	// Identity marks the fields that name a record. Key-based merge
	// policies match records on them.
	Identity bool
	Enum     []string
	// Synonyms maps lowercased alternative spellings to enum values.
	Synonyms map[string]string
	// Default overrides the zero value of the field type.
	Default any
}

// HasEnum reports whether the field is a constrained string.
func (f Field) HasEnum() bool {
	return len(f.Enum) > 0
}

// DefaultValue returns the value a missing field normalizes to.
func (f Field) DefaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	if f.Nullable {
		return nil
	}
	switch f.Type {
	case TypeNumber:
		return 0.0
	case TypeBoolean:
		return false
	case TypeStringArray:
		return []string{}
	case TypeString:
		if f.HasEnum() {
			return f.Enum[0]
		}
		return ""
	default:
		return nil
	}
}

// EntitySchema is the declarative shape of one domain entity.
type EntitySchema struct {
	Name   string
	Fields []Field
}

// Field returns the named field.
func (s EntitySchema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields lists the names of required fields in declaration order.
func (s EntitySchema) RequiredFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// IdentityFields lists the names of identity fields in declaration order.
func (s EntitySchema) IdentityFields() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Identity {
			out = append(out, f.Name)
		}
	}
	return out
}

// EnvelopeEntry binds one top-level response key to the schema of the
// records listed under it.
type EnvelopeEntry struct {
	Key    string
	Schema EntitySchema
}

// Envelope is the declared top-level shape of an extraction response, e.g.
// {"equipment": [...], "resources": [...]}.
type Envelope struct {
	Name    string
	Entries []EnvelopeEntry
}

// Keys lists the top-level response keys.
func (e Envelope) Keys() []string {
	keys := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		keys = append(keys, entry.Key)
	}
	return keys
}

// Describe renders a short human readable listing of the envelope, used in
// the instructions sent with a request.
func (e Envelope) Describe() string {
	var b strings.Builder
	for _, entry := range e.Entries {
		b.WriteString(entry.Key)
		b.WriteString(": array of {")
		for i, f := range entry.Schema.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			if f.HasEnum() {
				b.WriteString(" (" + strings.Join(f.Enum, "|") + ")")
			}
		}
		b.WriteString("}\n")
	}
	return b.String()
}
