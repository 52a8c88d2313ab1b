package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Coercer converts loosely typed extraction output into schema primitives.
// Every method is total: unusable input reports ok=false instead of failing.
type Coercer struct {
	config CoercionConfig
}

// CoercionConfig holds the vocabularies used by the coercion rules.
type CoercionConfig struct {
	CurrencySymbols []string `json:"currency_symbols"`
	TrueWords       []string `json:"true_words"`
	FalseWords      []string `json:"false_words"`
	// ListSeparators split a single string into an array value.
	ListSeparators []string `json:"list_separators"`
}

// DefaultCoercionConfig returns the rules used by the import pipeline.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		CurrencySymbols: []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "CAD", "AUD"},
		TrueWords:       []string{"true", "yes", "y", "x", "1", "on", "✓", "✔", "enabled"},
		FalseWords:      []string{"false", "no", "n", "0", "off", "", "disabled", "n/a"},
		ListSeparators:  []string{"\n", ";", ","},
	}
}

// NewCoercer creates a coercer with the given config.
func NewCoercer(config CoercionConfig) *Coercer {
	return &Coercer{config: config}
}

// Number coerces a value to float64. Strings may carry currency symbols,
// thousands separators, a percent sign or accounting parentheses.
func (c *Coercer) Number(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		return c.parseNumeric(val)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// parseNumeric handles international formats: parentheses for negatives,
// European decimals and currency symbols.
func (c *Coercer) parseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	upper := strings.ToUpper(cleanVal)
	for _, symbol := range c.config.CurrencySymbols {
		upper = strings.ReplaceAll(upper, strings.ToUpper(symbol), "")
	}
	cleanVal = strings.TrimSpace(upper)
	cleanVal = strings.TrimSpace(strings.ReplaceAll(cleanVal, "%", ""))
	if strings.HasPrefix(cleanVal, "-") {
		isNegative = !isNegative
		cleanVal = strings.TrimSpace(strings.TrimPrefix(cleanVal, "-"))
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// 1.234,56 or 1 234,56 use the comma as decimal separator; 1,234.56
		// uses it for thousands.
		commaIdx := strings.LastIndex(cleanVal, ",")
		periodIdx := strings.LastIndex(cleanVal, ".")
		if commaIdx > periodIdx {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// A lone comma followed by exactly three digits is a thousands
		// separator (1,500); otherwise it is a decimal comma (12,5).
		parts := strings.Split(cleanVal, ",")
		last := parts[len(parts)-1]
		if len(parts) > 2 || len(last) == 3 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	return finite(val)
}

// Bool coerces a value to a boolean. Blank text counts as false.
func (c *Coercer) Bool(v any) (bool, bool) {
	switch val := v.(type) {
	case nil:
		return false, false
	case bool:
		return val, true
	case float64:
		return val != 0, true
	case int:
		return val != 0, true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return false, false
		}
		return f != 0, true
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		for _, w := range c.config.TrueWords {
			if lower == w {
				return true, true
			}
		}
		for _, w := range c.config.FalseWords {
			if lower == w {
				return false, true
			}
		}
		return false, false
	default:
		return false, false
	}
}

// String coerces a scalar to trimmed text. Numbers render without a
// trailing fraction when integral.
func (c *Coercer) String(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}

// StringSlice coerces a value to a list of non-blank strings. A single
// string is split on the configured separators.
func (c *Coercer) StringSlice(v any) ([]string, bool) {
	switch val := v.(type) {
	case nil:
		return []string{}, false
	case []string:
		return compact(val), true
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := c.String(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out, true
	case string:
		return c.splitList(val), true
	case float64, int, int64, json.Number, bool:
		s, _ := c.String(val)
		return []string{s}, true
	default:
		return []string{}, false
	}
}

func (c *Coercer) splitList(s string) []string {
	parts := []string{s}
	for _, sep := range c.config.ListSeparators {
		var next []string
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	return compact(parts)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
