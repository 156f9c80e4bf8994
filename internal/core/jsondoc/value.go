package jsondoc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the JSON type of a Value
type Kind uint8

const (
	// KindNull is the JSON null literal (and the zero Value)
	KindNull Kind = iota
	// KindBool is true or false
	KindBool
	// KindNumber is a number kept as its literal text
	KindNumber
	// KindString is a JSON string
	KindString
	// KindArray is an ordered list of values
	KindArray
	// KindObject is an ordered list of members
	KindObject
)

var kindNames = [...]string{"null", "bool", "number", "string", "array", "object"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Member is one key/value pair of an object
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable-by-convention JSON value. The zero Value is null
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  []Member
}

// Null returns the null value
func Null() Value { return Value{} }

// BoolValue wraps a bool
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberValue wraps a number literal. The literal is trusted; use ParseNumber for untrusted text
func NumberValue(n json.Number) Value { return Value{kind: KindNumber, num: n} }

// ParseNumber validates s as a JSON number literal
func ParseNumber(s string) (Value, bool) {
	if !validNumber(s) {
		return Value{}, false
	}
	return NumberValue(json.Number(s)), true
}

// FloatValue wraps f using the shortest literal that round-trips. f must be finite
func FloatValue(f float64) Value { return NumberValue(json.Number(FormatFloat(f))) }

// StringValue wraps a string
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// Array builds an array value; the slice is retained
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, arr: items}
}

// Object builds an object value; the slice is retained
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, obj: members}
}

// Kind reports the JSON type
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the bool payload (false for other kinds)
func (v Value) Bool() bool { return v.b }

// Number returns the literal of a number value ("" for other kinds)
func (v Value) Number() json.Number { return v.num }

// Float parses a number value; ok is false for other kinds or out-of-range literals
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(v.num), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IsIntegerLiteral reports whether a number was written without fraction or exponent
func (v Value) IsIntegerLiteral() bool {
	return v.kind == KindNumber && !strings.ContainsAny(string(v.num), ".eE")
}

// String returns the string payload ("" for other kinds)
func (v Value) String() string { return v.str }

// Len returns the element count of an array or the member count of an object
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Index returns the i-th array element
func (v Value) Index(i int) Value { return v.arr[i] }

// Items returns the array elements. Callers must not modify the slice
func (v Value) Items() []Value { return v.arr }

// Members returns the object members in source order. Callers must not modify the slice
func (v Value) Members() []Member { return v.obj }

// Get returns the value of the first member named key
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// FormatFloat renders f the way encoding/json does: plain decimal in [1e-6, 1e21),
// exponent form outside it, shortest digits that round-trip
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}

// validNumber checks the RFC 8259 number grammar
func validNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
	}
	switch {
	case s[0] == '0':
		s = s[1:]
	case '1' <= s[0] && s[0] <= '9':
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			s = s[1:]
		}
	default:
		return false
	}
	if len(s) >= 2 && s[0] == '.' && '0' <= s[1] && s[1] <= '9' {
		s = s[2:]
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			s = s[1:]
		}
	}
	if len(s) >= 2 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if s[0] == '+' || s[0] == '-' {
			s = s[1:]
			if s == "" {
				return false
			}
		}
		for len(s) > 0 && '0' <= s[0] && s[0] <= '9' {
			s = s[1:]
		}
	}
	return s == ""
}
