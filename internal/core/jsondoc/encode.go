package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders v as compact JSON. Members keep their stored order and HTML characters
// are written as-is
func Encode(v Value) ([]byte, error) {
	var buf bytes.Buffer
	e := encoder{buf: &buf}
	if err := e.value(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeIndent renders v like Encode and then indents it
func EncodeIndent(v Value, prefix, indent string) ([]byte, error) {
	compact, err := Encode(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// MarshalJSON lets a Value sit inside structs encoded by encoding/json
func (v Value) MarshalJSON() ([]byte, error) { return Encode(v) }

type encoder struct {
	buf     *bytes.Buffer
	scratch bytes.Buffer
	str     *json.Encoder
}

func (e *encoder) value(v Value) error {
	switch v.kind {
	case KindNull:
		e.buf.WriteString("null")
	case KindBool:
		if v.b {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case KindNumber:
		if !validNumber(string(v.num)) {
			return fmt.Errorf("jsondoc: invalid number literal %q", string(v.num))
		}
		e.buf.WriteString(string(v.num))
	case KindString:
		return e.string(v.str)
	case KindArray:
		e.buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	case KindObject:
		e.buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.string(m.Key); err != nil {
				return err
			}
			e.buf.WriteByte(':')
			if err := e.value(m.Value); err != nil {
				return err
			}
		}
		e.buf.WriteByte('}')
	default:
		return fmt.Errorf("jsondoc: unknown kind %v", v.kind)
	}
	return nil
}

func (e *encoder) string(s string) error {
	if e.str == nil {
		e.str = json.NewEncoder(&e.scratch)
		e.str.SetEscapeHTML(false)
	}
	e.scratch.Reset()
	if err := e.str.Encode(s); err != nil {
		return err
	}
	b := e.scratch.Bytes()
	e.buf.Write(b[:len(b)-1]) // Encode appends '\n'
	return nil
}
