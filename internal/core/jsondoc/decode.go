package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// maxDepth matches the nesting limit of encoding/json
const maxDepth = 10000

// ErrEmpty is returned when the input holds no JSON value
var ErrEmpty = errors.New("jsondoc: empty document")

// Decode parses exactly one JSON value from data
// Input must be valid UTF-8; strings are never repaired with U+FFFD
func Decode(data []byte) (Value, error) {
	if off := invalidUTF8(data); off >= 0 {
		return Value{}, fmt.Errorf("jsondoc: invalid UTF-8 at offset %d", off)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEmpty
		}
		return Value{}, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return Value{}, fmt.Errorf("jsondoc: trailing data: %w", err)
		}
		return Value{}, fmt.Errorf("jsondoc: trailing data at offset %d: %v", dec.InputOffset(), tok)
	}
	return v, nil
}

// invalidUTF8 returns the offset of the first invalid byte, or -1
func invalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, n := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}
		i += n
	}
	return -1
}

func decodeValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, fmt.Errorf("jsondoc: exceeded max depth at offset %d", dec.InputOffset())
	}
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(t), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
		return Value{}, fmt.Errorf("jsondoc: unexpected %q at offset %d", rune(t), dec.InputOffset())
	}
	return Value{}, fmt.Errorf("jsondoc: unexpected token %T", tok)
}

func decodeObject(dec *json.Decoder, depth int) (Value, error) {
	members := []Member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("jsondoc: object key is %T at offset %d", tok, dec.InputOffset())
		}
		val, err := decodeValue(dec, depth+1)
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		members = append(members, Member{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil { // '}'
		return Value{}, unexpectedEOF(err)
	}
	return Object(members...), nil
}

func decodeArray(dec *json.Decoder, depth int) (Value, error) {
	items := []Value{}
	for dec.More() {
		val, err := decodeValue(dec, depth+1)
		if err != nil {
			return Value{}, unexpectedEOF(err)
		}
		items = append(items, val)
	}
	if _, err := dec.Token(); err != nil { // ']'
		return Value{}, unexpectedEOF(err)
	}
	return Array(items...), nil
}

// unexpectedEOF keeps a truncated container from reading as an empty document
func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// UnmarshalJSON lets a Value sit inside structs decoded by encoding/json
func (v *Value) UnmarshalJSON(data []byte) error {
	out, err := Decode(data)
	if err != nil {
		return err
	}
	*v = out
	return nil
}
