package schema

import "clinicsetup/domain/record"

// JSONSchema renders the entity as a JSON Schema object definition.
func (s EntitySchema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		props[f.Name] = fieldSchema(f)
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if req := s.RequiredFields(); len(req) > 0 {
		out["required"] = req
	}
	return out
}

// JSONSchema renders the full response contract: an object whose declared
// keys are arrays of entity objects, all required.
func (e Envelope) JSONSchema() map[string]any {
	props := make(map[string]any, len(e.Entries))
	for _, entry := range e.Entries {
		props[entry.Key] = map[string]any{
			"type":        "array",
			"description": "Include ALL records found in the file, do not truncate or limit the data.",
			"items":       entry.Schema.JSONSchema(),
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   e.Keys(),
	}
}

func fieldSchema(f Field) map[string]any {
	var out map[string]any
	switch f.Type {
	case TypeStringArray:
		out = map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	case TypeSchedule:
		out = scheduleSchema()
	case TypeBusinessHours:
		out = businessHoursSchema()
	default:
		out = map[string]any{"type": string(f.Type)}
	}
	nullable := f.Nullable || !f.Required
	if f.HasEnum() {
		if nullable {
			values := make([]any, 0, len(f.Enum)+1)
			for _, v := range f.Enum {
				values = append(values, v)
			}
			out["enum"] = append(values, nil)
		} else {
			out["enum"] = append([]string{}, f.Enum...)
		}
	}
	// Optional fields accept null so absent values stay absent.
	if nullable {
		out["type"] = []any{out["type"], "null"}
	}
	if f.Description != "" {
		out["description"] = f.Description
	}
	return out
}

func scheduleSchema() map[string]any {
	days := make(map[string]any, len(record.Weekdays))
	for _, day := range record.Weekdays {
		days[day] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"available": map[string]any{"type": "boolean"},
				"shifts": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"start": map[string]any{"type": "string"},
							"end":   map[string]any{"type": "string"},
						},
					},
				},
			},
		}
	}
	return map[string]any{"type": "object", "properties": days}
}

func businessHoursSchema() map[string]any {
	days := make(map[string]any, len(record.Weekdays))
	for _, day := range record.Weekdays {
		days[day] = map[string]any{
			"type": "object",
			"properties": map[string]any{
				"open":  map[string]any{"type": "string"},
				"close": map[string]any{"type": "string"},
			},
		}
	}
	return map[string]any{"type": "object", "properties": days}
}
