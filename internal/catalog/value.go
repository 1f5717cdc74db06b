package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a loosely typed JSON scalar (string, number, bool or null) as the
// catalog data uses for ids, counts, rates and table fields. The zero value is absent.
type Value struct {
	raw json.RawMessage
}

// ValueOf builds a Value from a Go value; intended for tests and fixtures.
func ValueOf(v any) Value {
	b, err := json.Marshal(v)
	if err != nil {
		return Value{}
	}
	return Value{raw: b}
}

// UnmarshalJSON keeps the raw token.
func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	return nil
}

// MarshalJSON writes the raw token back, or null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsNull reports whether the field was absent or JSON null.
func (v Value) IsNull() bool {
	t := bytes.TrimSpace(v.raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// Truthy applies JavaScript truthiness: absent, null, false, 0, NaN and "" are falsy.
func (v Value) Truthy() bool {
	if v.IsNull() {
		return false
	}
	t := bytes.TrimSpace(v.raw)
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return false
		}
		return s != ""
	case 't':
		return true
	case 'f':
		return false
	case '{', '[':
		return true
	default:
		f, err := strconv.ParseFloat(string(t), 64)
		if err != nil {
			return true
		}
		return f != 0 && !math.IsNaN(f)
	}
}

// String renders the value for display: strings unquoted, numbers in their
// shortest decimal form, other values as compact JSON. Absent values are "".
func (v Value) String() string {
	if v.IsNull() {
		return ""
	}
	t := bytes.TrimSpace(v.raw)
	switch t[0] {
	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return string(t)
		}
		return s
	case 't', 'f':
		return string(t)
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, t); err != nil {
			return string(t)
		}
		return buf.String()
	default:
		return formatNumber(string(t))
	}
}

func formatNumber(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	if f == 0 {
		// -0 prints as 0
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return exponentTrimmer.Replace(strconv.FormatFloat(f, 'e', -1, 64))
}

var exponentTrimmer = strings.NewReplacer("e+0", "e+", "e-0", "e-")

// Table holds the stat fields shared by boxes and item details.
type Table struct {
	Level  Value `json:"Level"`
	Value  Value `json:"Value"`
	Weight Value `json:"Weight"`
	Slots  Value `json:"Slots"`
}
