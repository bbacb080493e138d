package tabular

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindString
	KindInt
	KindFloat
)

// Value is a closed variant for a single cell: text, integer, float, or
// absent. Cells are untyped at ingestion (CSV reads everything as text);
// typed values appear when rows arrive over JSON or are built in code.
// Keeping the variant closed makes coercion failures explicit instead of
// burying them in interface{} assertions.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
}

// Absent returns the absent value. Missing cells and JSON nulls map here.
func Absent() Value { return Value{kind: KindAbsent} }

// String wraps a text cell.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer cell.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps a floating-point cell.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Kind reports the variant held by the value.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the cell is missing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// String renders the cell as text. Absent renders as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return ""
	}
}

// Float coerces the cell to a float64. Text cells are parsed after trimming
// surrounding whitespace. Returns false for absent and unparseable cells.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal reports whether two values hold the same variant and content.
func (v Value) Equal(other Value) bool { return v == other }

// MarshalJSON renders absent as null and numeric kinds as JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindAbsent:
		return []byte("null"), nil
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		return []byte(strconv.FormatFloat(v.f, 'g', -1, 64)), nil
	default:
		return []byte(strconv.Quote(v.str)), nil
	}
}

// UnmarshalJSON accepts null, strings, and numbers. Integral numbers without
// an exponent or fraction become Int; everything else numeric becomes Float.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty cell value")
	}
	if bytes.Equal(data, []byte("null")) {
		*v = Absent()
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("decode string cell: %w", err)
		}
		*v = String(s)
		return nil
	}
	raw := string(data)
	if !bytes.ContainsAny(data, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			*v = Int(i)
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("decode cell value %q: %w", raw, err)
	}
	*v = Float(f)
	return nil
}
