package jsondoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestDecodeEncodeKeepsOrderAndLiterals(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"b":1,"a":2}`, `{"b":1,"a":2}`},
		{`{ "z" : 1.50, "y" : [ 1e3 , -0 , 2E-2 ] }`, `{"z":1.50,"y":[1e3,-0,2E-2]}`},
		{`[true,false,null,"x"]`, `[true,false,null,"x"]`},
		{`"<a&b>"`, `"<a&b>"`},
		{`{"k":"line\nbreak é"}`, `{"k":"line\nbreak é"}`},
		{`{}`, `{}`},
		{`[]`, `[]`},
		{`  42  `, `42`},
		{`{"dup":1,"dup":2}`, `{"dup":1,"dup":2}`},
	}
	for _, c := range cases {
		v, err := Decode([]byte(c.in))
		if err != nil {
			t.Fatalf("Decode(%s): %v", c.in, err)
		}
		out, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%s): %v", c.in, err)
		}
		if string(out) != c.want {
			t.Fatalf("round trip %s = %s, want %s", c.in, out, c.want)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	cases := []string{
		`{"a":1} x`,
		`{"a":1}{}`,
		`[1,2`,
		`{"a":`,
		`{"a" 1}`,
		`[1,]`,
		`nul`,
		`}`,
	}
	for _, in := range cases {
		if _, err := Decode([]byte(in)); err == nil {
			t.Fatalf("Decode(%q) expected error", in)
		}
	}

	if _, err := Decode(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Decode(nil) err = %v, want ErrEmpty", err)
	}
	if _, err := Decode([]byte("  \n")); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Decode(blank) err = %v, want ErrEmpty", err)
	}
	if _, err := Decode([]byte(`[1,2`)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("truncated err = %v, want unexpected EOF", err)
	}
}

func TestDecodeRejectsInvalidUTF8(t *testing.T) {
	cases := []struct {
		in  string
		off int
	}{
		{"{\"name\":\"bad\xff\",\"x\":1}", 12},
		{"{\"n\xc3\":1}", 3},
		{"[\"ok\",\"\xed\xa0\x80\"]", 7},
	}
	for _, c := range cases {
		_, err := Decode([]byte(c.in))
		if err == nil {
			t.Fatalf("Decode(%q) expected error", c.in)
		}
		if want := fmt.Sprintf("offset %d", c.off); !strings.Contains(err.Error(), want) {
			t.Fatalf("Decode(%q) err = %v, want %s", c.in, err, want)
		}
	}

	v, err := Decode([]byte(`{"name":"Taverne \u00e9t\u00e9 é"}`))
	if err != nil {
		t.Fatalf("valid UTF-8 rejected: %v", err)
	}
	if got, _ := v.Get("name"); got.String() != "Taverne été é" {
		t.Fatalf("name = %q", got.String())
	}
}

func TestDecodeDepthLimit(t *testing.T) {
	deep := strings.Repeat("[", maxDepth+2) + strings.Repeat("]", maxDepth+2)
	if _, err := Decode([]byte(deep)); err == nil {
		t.Fatalf("expected depth error")
	}
}

func TestAccessors(t *testing.T) {
	v, err := Decode([]byte(`{"name":"Cave","grid":100,"w":1.5,"on":true,"tokens":[{"x":1}],"n":null}`))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindObject || v.Len() != 6 {
		t.Fatalf("kind=%v len=%d", v.Kind(), v.Len())
	}
	if name, ok := v.Get("name"); !ok || name.String() != "Cave" {
		t.Fatalf("Get(name) = %v %v", name, ok)
	}
	grid, _ := v.Get("grid")
	if f, ok := grid.Float(); !ok || f != 100 || !grid.IsIntegerLiteral() {
		t.Fatalf("grid = %v %v", f, ok)
	}
	w, _ := v.Get("w")
	if w.IsIntegerLiteral() {
		t.Fatalf("1.5 is not an integer literal")
	}
	on, _ := v.Get("on")
	if !on.Bool() {
		t.Fatalf("on should be true")
	}
	tokens, _ := v.Get("tokens")
	if tokens.Kind() != KindArray || tokens.Len() != 1 || tokens.Index(0).Kind() != KindObject {
		t.Fatalf("tokens = %+v", tokens)
	}
	n, _ := v.Get("n")
	if !n.IsNull() {
		t.Fatalf("n should be null")
	}
	if _, ok := v.Get("missing"); ok {
		t.Fatalf("missing key reported present")
	}
	if _, ok := StringValue("1").Float(); ok {
		t.Fatalf("Float on string should fail")
	}
	if got := v.Members()[0].Key; got != "name" {
		t.Fatalf("first member = %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{50, "50"},
		{0.1, "0.1"},
		{2000, "2000"},
		{-12.5, "-12.5"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{1e-7, "1e-7"},
		{0.000001, "0.000001"},
		{0, "0"},
		{1.0 / 3, "0.3333333333333333"},
	}
	for _, c := range cases {
		if got := FormatFloat(c.in); got != c.want {
			t.Fatalf("FormatFloat(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	good := []string{"0", "-0", "12", "1.5", "1e9", "1E+2", "-3.25e-4"}
	for _, s := range good {
		if _, ok := ParseNumber(s); !ok {
			t.Fatalf("ParseNumber(%q) rejected", s)
		}
	}
	bad := []string{"", "-", "01", "1.", ".5", "1e", "1e+", "+1", "NaN", "0x10", "1.5.5"}
	for _, s := range bad {
		if _, ok := ParseNumber(s); ok {
			t.Fatalf("ParseNumber(%q) accepted", s)
		}
	}
}

func TestEncodeRejectsBadLiteral(t *testing.T) {
	if _, err := Encode(Array(NumberValue("+Inf"))); err == nil {
		t.Fatalf("expected error for invalid literal")
	}
}

func TestEqual(t *testing.T) {
	a := Object(Member{"x", NumberValue("1")}, Member{"y", Array(StringValue("s"), Null())})
	b := Object(Member{"x", NumberValue("1")}, Member{"y", Array(StringValue("s"), Null())})
	if !Equal(a, b) {
		t.Fatalf("identical values not Equal")
	}
	swapped := Object(Member{"y", Array(StringValue("s"), Null())}, Member{"x", NumberValue("1")})
	if Equal(a, swapped) {
		t.Fatalf("member order must matter")
	}
	if Equal(NumberValue("1"), NumberValue("1.0")) {
		t.Fatalf("Equal compares literals")
	}
	if !ApproxEqual(NumberValue("1"), NumberValue("1.0"), 0) {
		t.Fatalf("ApproxEqual compares values")
	}
	if !ApproxEqual(FloatValue(0.1*3), NumberValue("0.3"), 1e-12) {
		t.Fatalf("ApproxEqual tolerance")
	}
	if ApproxEqual(NumberValue("1"), NumberValue("2"), 1e-9) {
		t.Fatalf("ApproxEqual too loose")
	}
	if Equal(BoolValue(true), StringValue("true")) {
		t.Fatalf("kinds differ")
	}
}

func TestStdlibInterop(t *testing.T) {
	var req struct {
		Scale    float64 `json:"scale"`
		Document Value   `json:"document"`
	}
	if err := json.Unmarshal([]byte(`{"scale":2,"document":{"b":1,"a":2}}`), &req); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(map[string]any{"document": req.Document})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"document":{"b":1,"a":2}}` {
		t.Fatalf("marshal = %s", out)
	}

	pretty, err := EncodeIndent(req.Document, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if string(pretty) != "{\n  \"b\": 1,\n  \"a\": 2\n}" {
		t.Fatalf("indent = %q", pretty)
	}
}

func TestKindString(t *testing.T) {
	if KindObject.String() != "object" || Kind(99).String() != "kind(99)" {
		t.Fatalf("Kind.String mismatch")
	}
}
