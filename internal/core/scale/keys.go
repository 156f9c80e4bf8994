package scale

import (
	"encoding/json"
	"io"
	"slices"
	"strings"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

// Class is what the transformer does with a field
type Class uint8

const (
	// Pass copies the value unchanged
	Pass Class = iota
	// Scale multiplies numeric content by the factor
	Scale
)

func (c Class) String() string {
	if c == Scale {
		return "scale"
	}
	return "pass"
}

// MarshalText renders the class for key files and the API
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText accepts "scale" or "pass"
func (c *Class) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "scale":
		*c = Scale
	case "pass":
		*c = Pass
	default:
		return perr.Validationf("class must be scale or pass, got %q", string(b))
	}
	return nil
}

// KeyTable maps field names to a Class. A key may be qualified by the key of the
// enclosing object ("grid.size"); the qualified entry wins over the bare one.
// Keys missing from the table are Pass
type KeyTable map[string]Class

var defaultKeys = KeyTable{
	// geometry
	"grid":      Scale,
	"grid.size": Scale,
	"width":     Scale,
	"height":    Scale,
	"x":         Scale,
	"y":         Scale,
	"c":         Scale, // wall segment [x0,y0,x1,y1]
	"points":    Scale, // drawing vertices
	"shiftX":    Scale,
	"shiftY":    Scale,
	"offsetX":   Scale,
	"offsetY":   Scale,

	// look spatial, are not
	"rotation":     Pass,
	"scale":        Pass,
	"gridDistance": Pass,
	"elevation":    Pass,
	"z":            Pass,
	"sort":         Pass,
}

// DefaultKeys returns a fresh copy of the built-in table
func DefaultKeys() KeyTable { return defaultKeys.Clone() }

// Clone copies the table
func (t KeyTable) Clone() KeyTable {
	out := make(KeyTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Merge returns a new table with over's entries replacing t's
func (t KeyTable) Merge(over KeyTable) KeyTable {
	out := t.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Classify looks up key under its enclosing object key parent ("" at the root)
func (t KeyTable) Classify(parent, key string) Class {
	if parent != "" {
		if c, ok := t[parent+"."+key]; ok {
			return c
		}
	}
	return t[key]
}

// Keys returns the table keys in sorted order
func (t KeyTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Spatial returns the sorted keys classified Scale
func (t KeyTable) Spatial() []string {
	out := []string{}
	for _, k := range t.Keys() {
		if t[k] == Scale {
			out = append(out, k)
		}
	}
	return out
}

// LoadKeyTable reads a JSON object of {"key": "scale"|"pass"}
func LoadKeyTable(r io.Reader) (KeyTable, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var t KeyTable
	if err := dec.Decode(&t); err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeValidation, "invalid key table"), "scale.keys")
	}
	for k := range t {
		if strings.TrimSpace(k) == "" || strings.HasPrefix(k, ".") || strings.HasSuffix(k, ".") {
			return nil, perr.WithOp(perr.WithField(perr.Validationf("invalid key %q in key table", k), k), "scale.keys")
		}
	}
	if t == nil {
		t = KeyTable{}
	}
	return t, nil
}
