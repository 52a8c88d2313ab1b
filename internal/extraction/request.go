package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"clinicsetup/domain/schema"
	"clinicsetup/domain/sheet"
	"clinicsetup/ports"
)

// Preamble is sent ahead of every domain's instructions.
const Preamble = `You extract business setup records from spreadsheet data.

The input is JSON: a list of sheets, each with the sheet kind, the header row for column context and the data rows that follow it.

Rules:
- Produce exactly one record per data row that describes an entity. Do not invent records and do not merge rows.
- Include ALL records found in the file. Never truncate, sample or summarize the data.
- Map column headers to fields by meaning, not by exact spelling.
- Strip currency symbols and thousands separators from money values and return plain numbers.
- Convert yes/no, y/n, true/false, x and checkmarks to booleans.
- Use null for values that are not present in the row. Do not fill in empty strings, 0 or false for them; defaults are applied after extraction.
- Lists of names in one cell are separated by commas, semicolons or line breaks.
- Times are 24-hour HH:MM.`

// Build packages filtered tables, the response envelope and the domain
// instructions into one extraction request.
func Build(tables []sheet.Table, env schema.Envelope, instructions string) (*ports.ExtractionRequest, error) {
	if len(env.Entries) == 0 {
		return nil, fmt.Errorf("envelope %q declares no response keys", env.Name)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to extract for %q", env.Name)
	}

	payload, err := json.Marshal(tables)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize tables: %w", err)
	}

	return &ports.ExtractionRequest{
		Name:         env.Name,
		Table:        string(payload),
		Schema:       env.JSONSchema(),
		Instructions: Instructions(tables, env, instructions),
		Keys:         env.Keys(),
	}, nil
}

// Instructions assembles the full instruction text for a request.
func Instructions(tables []sheet.Table, env schema.Envelope, domain string) string {
	var b strings.Builder
	b.WriteString(Preamble)

	if len(tables) > 1 {
		kinds := make([]string, len(tables))
		for i, t := range tables {
			kinds[i] = t.Kind
		}
		fmt.Fprintf(&b, "\n\nThe input holds %d related sheets (%s). Combine them into the single response shape below.",
			len(tables), strings.Join(kinds, ", "))
	}

	b.WriteString("\n\nRespond with a JSON object with these keys:\n")
	b.WriteString(env.Describe())

	if domain = strings.TrimSpace(domain); domain != "" {
		b.WriteString("\n")
		b.WriteString(domain)
	}
	return b.String()
}

// RowCount totals the data rows across tables.
func RowCount(tables []sheet.Table) int {
	n := 0
	for _, t := range tables {
		n += len(t.Rows)
	}
	return n
}
