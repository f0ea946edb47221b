package core

// convert.go turns loosely typed spreadsheet cells into field values.
//
// Cells may arrive as strings, integers or floats depending on the source.
// Text is coerced with cast and cleaned of common CSV artifacts. Numbers
// tolerate thousands separators, currency symbols and the accounting
// format for negatives; anything unparseable is treated as absent.

import (
	"math"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Row is one loosely typed import row.
type Row []any

// Text returns the trimmed string form of cell i, or "" when absent.
func (r Row) Text(i int) string {
	if i < 0 || i >= len(r) || r[i] == nil {
		return ""
	}
	return CleanCell(cast.ToString(r[i]))
}

// Int returns cell i as a whole number, or nil when blank or unparseable.
func (r Row) Int(i int) *int {
	f, ok := r.number(i)
	if !ok || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	n := int(f)
	return &n
}

// Decimal returns cell i as a float, or nil when blank or unparseable.
func (r Row) Decimal(i int) *float64 {
	f, ok := r.number(i)
	if !ok {
		return nil
	}
	return &f
}

// Blank reports whether every cell is empty.
func (r Row) Blank() bool {
	for i := range r {
		if r.Text(i) != "" {
			return false
		}
	}
	return true
}

func (r Row) number(i int) (float64, bool) {
	if i < 0 || i >= len(r) || r[i] == nil {
		return 0, false
	}
	if s, ok := r[i].(string); ok {
		return ParseNumber(s)
	}
	f, err := cast.ToFloat64E(r[i])
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseNumber parses a user-entered number.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseNumber(s string) (float64, bool) {
	s = CleanCell(s)
	if s == "" {
		return 0, false
	}

	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"`)

	return strings.TrimSpace(s)
}

// FormatInt renders an optional integer for export.
func FormatInt(n *int) string {
	if n == nil {
		return ""
	}
	return cast.ToString(*n)
}

// FormatDecimal renders an optional decimal for export.
func FormatDecimal(f *float64) string {
	if f == nil {
		return ""
	}
	return cast.ToString(*f)
}

// MergeText overwrites dst only with a non-blank value.
func MergeText(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// MergeValue overwrites dst only with a present value.
func MergeValue[T any](dst **T, value *T) {
	if value != nil {
		*dst = value
	}
}
