package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Box is one loot container. Its identity is its index in the loaded list.
type Box struct {
	Title       string           `json:"title"`
	ImageFile   string           `json:"imageFile"`
	Tags        []string         `json:"tags"`
	Table       *Table           `json:"table"`
	Description string           `json:"description"`
	Price       string           `json:"price"`
	Items       []BoxItemSummary `json:"items"`
}

// BoxItemSummary is the abbreviated item record embedded in a box's item list.
// ID joins it to the ItemDetail resource.
type BoxItemSummary struct {
	ID      Value  `json:"id"`
	Name    string `json:"name"`
	ImgFile string `json:"imgFile"`
	Count   Value  `json:"count"`
	Rate    Value  `json:"rate"`
}

// ItemDetail is the full item record fetched on demand.
type ItemDetail struct {
	Title        string     `json:"title"`
	ImageFile    string     `json:"imageFile"`
	Table        *Table     `json:"table"`
	Compoundable []string   `json:"compoundable"`
	Attributes   Attributes `json:"attributes"`
}

// Attribute is one stat line of an item detail.
type Attribute struct {
	Code  string
	Value Value
}

// Attributes keeps attribute entries in the order an object enumerates them:
// index-like keys ascending, then the rest in document order.
type Attributes []Attribute

// UnmarshalJSON decodes a JSON object preserving key order. null decodes to no attributes.
func (a *Attributes) UnmarshalJSON(b []byte) error {
	*a = nil
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("catalog: attributes must be an object, got %v", tok)
	}
	var out Attributes
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("catalog: unexpected attribute key %v", keyTok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = replaceOrAppend(out, Attribute{Code: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = orderKeys(out)
	return nil
}

// orderKeys applies object property order: array-index keys first in ascending
// numeric order, then the remaining keys in insertion order.
func orderKeys(attrs Attributes) Attributes {
	sort.SliceStable(attrs, func(i, j int) bool {
		ni, iok := arrayIndex(attrs[i].Code)
		nj, jok := arrayIndex(attrs[j].Code)
		if iok && jok {
			return ni < nj
		}
		return iok && !jok
	})
	return attrs
}

// arrayIndex reports whether key is a canonical array index ("0", or digits
// with no leading zero, below 2^32-1).
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for _, c := range key {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 64)
	if err != nil || n >= math.MaxUint32 {
		return 0, false
	}
	return n, true
}

// replaceOrAppend mirrors object semantics: a repeated key keeps its first
// position but takes the last value.
func replaceOrAppend(attrs Attributes, attr Attribute) Attributes {
	for i := range attrs {
		if attrs[i].Code == attr.Code {
			attrs[i].Value = attr.Value
			return attrs
		}
	}
	return append(attrs, attr)
}

// MarshalJSON writes the attributes back as an object in order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Code)
		if err != nil {
			return nil, err
		}
		val, err := attr.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeBoxList normalizes the box-list document: an array is taken as is, a
// single object becomes a one-element list and null is an empty list.
func decodeBoxList(raw json.RawMessage) ([]Box, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '[':
		var boxes []Box
		if err := json.Unmarshal(trimmed, &boxes); err != nil {
			return nil, err
		}
		return boxes, nil
	case '{':
		var box Box
		if err := json.Unmarshal(trimmed, &box); err != nil {
			return nil, err
		}
		return []Box{box}, nil
	default:
		return nil, fmt.Errorf("catalog: box list must be an object or array")
	}
}
