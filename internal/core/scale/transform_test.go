package scale

import (
	"testing"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/jsondoc"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

const sceneDoc = `{"name":"Tavern","grid":100,"width":4000,"height":3000,"shiftX":0,"gridDistance":5,` +
	`"tokens":[{"name":"Guard","x":500,"y":250,"rotation":90,"elevation":10,"width":1,"height":1}],` +
	`"walls":[{"c":[0,0,1000,0],"door":1}],` +
	`"drawings":[{"x":10.5,"y":20,"shape":{"points":[[0,0],[5,5]]}}],` +
	`"lights":[{"x":300,"y":300,"config":{"dim":30}}],"flags":{"core":{"sheet":"x"}},"img":null}`

func mustDecode(t *testing.T, s string) jsondoc.Value {
	t.Helper()
	v, err := jsondoc.Decode([]byte(s))
	if err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func encode(t *testing.T, v jsondoc.Value) string {
	t.Helper()
	b, err := jsondoc.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return string(b)
}

func TestTransformEndToEndHalf(t *testing.T) {
	doc := mustDecode(t, sceneDoc)
	out, err := Transform(doc, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Tavern","grid":50,"width":2000,"height":1500,"shiftX":0,"gridDistance":5,` +
		`"tokens":[{"name":"Guard","x":250,"y":125,"rotation":90,"elevation":10,"width":0.5,"height":0.5}],` +
		`"walls":[{"c":[0,0,500,0],"door":1}],` +
		`"drawings":[{"x":5.25,"y":10,"shape":{"points":[[0,0],[2.5,2.5]]}}],` +
		`"lights":[{"x":150,"y":150,"config":{"dim":30}}],"flags":{"core":{"sheet":"x"}},"img":null}`
	if got := encode(t, out); got != want {
		t.Fatalf("scaled doc\n got %s\nwant %s", got, want)
	}
	// input untouched
	if got := encode(t, doc); got != sceneDoc {
		t.Fatalf("input mutated: %s", got)
	}
}

func TestTransformIdentityKeepsLiterals(t *testing.T) {
	in := `{"grid":100.0,"x":1e2,"y":-0,"c":[1.50,2],"name":"n","rotation":45.00}`
	doc := mustDecode(t, in)
	out, err := Transform(doc, Identity)
	if err != nil {
		t.Fatal(err)
	}
	if !jsondoc.Equal(doc, out) {
		t.Fatalf("identity changed document: %s", encode(t, out))
	}
	if got := encode(t, out); got != in {
		t.Fatalf("identity re-encode = %s, want %s", got, in)
	}
}

func TestTransformIdentitySkipsParsingAndRounding(t *testing.T) {
	in := `{"x":1e400,"y":-1e400,"c":[2.5,0.5],"grid":{"size":1.5}}`
	for _, r := range []Rounding{RoundNone, RoundIntegers, RoundAll} {
		out, err := New(Identity, WithRounding(r)).Value(mustDecode(t, in))
		if err != nil {
			t.Fatalf("%v: %v", r, err)
		}
		if got := encode(t, out); got != in {
			t.Fatalf("%v: identity = %s, want %s", r, got, in)
		}
	}
}

func TestTransformLinearity(t *testing.T) {
	doc := mustDecode(t, sceneDoc)
	pairs := [][2]Factor{{2, 3}, {0.5, 0.25}, {1.5, 4}, {0.1, 10}}
	for _, p := range pairs {
		step, err := Transform(doc, p[0])
		if err != nil {
			t.Fatal(err)
		}
		twice, err := Transform(step, p[1])
		if err != nil {
			t.Fatal(err)
		}
		once, err := Transform(doc, p[0]*p[1])
		if err != nil {
			t.Fatal(err)
		}
		if !jsondoc.ApproxEqual(twice, once, 1e-9) {
			t.Fatalf("scale(scale(d,%v),%v) != scale(d,%v)\n%s\n%s", p[0], p[1], p[0]*p[1], encode(t, twice), encode(t, once))
		}
	}
}

func TestTransformSelective(t *testing.T) {
	doc := mustDecode(t, `{"rotation":90,"scale":2,"z":3,"sort":4,"elevation":5,"gridDistance":5,"alpha":0.5,"name":"x","hidden":true}`)
	out, err := Transform(doc, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !jsondoc.Equal(doc, out) {
		t.Fatalf("non-spatial fields changed: %s", encode(t, out))
	}
}

func TestTransformShapeAndNonNumericSpatial(t *testing.T) {
	in := `{"x":null,"y":"12","width":true,"height":{},"c":[],"points":[null,"a",[1,[2]]],"grid":{"size":100,"type":1,"distance":5}}`
	out, err := Transform(mustDecode(t, in), 2)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"x":null,"y":"12","width":true,"height":{},"c":[],"points":[null,"a",[2,[4]]],"grid":{"size":200,"type":1,"distance":5}}`
	if got := encode(t, out); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestTransformScalarsAndRootArray(t *testing.T) {
	cases := []struct{ in, want string }{
		{`5`, `5`},
		{`"x"`, `"x"`},
		{`null`, `null`},
		{`[{"x":1},{"x":2}]`, `[{"x":4},{"x":8}]`},
		{`[[{"y":0.5}]]`, `[[{"y":2}]]`},
	}
	for _, c := range cases {
		out, err := Transform(mustDecode(t, c.in), 4)
		if err != nil {
			t.Fatal(err)
		}
		if got := encode(t, out); got != c.want {
			t.Fatalf("Transform(%s) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestTransformQualifiedKeys(t *testing.T) {
	keys := DefaultKeys().Merge(KeyTable{"tokens.width": Pass, "tokens.height": Pass, "config.dim": Scale})
	tr := New(2, WithKeys(keys))
	out, err := tr.Value(mustDecode(t, `{"width":10,"tokens":[{"width":1,"height":1,"x":3}],"lights":[{"config":{"dim":30,"bright":10}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"width":20,"tokens":[{"width":1,"height":1,"x":6}],"lights":[{"config":{"dim":60,"bright":10}}]}`
	if got := encode(t, out); got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestTransformRounding(t *testing.T) {
	in := `{"x":5,"y":7.5,"c":[3,1.25]}`
	cases := []struct {
		r    Rounding
		want string
	}{
		{RoundNone, `{"x":2.5,"y":3.75,"c":[1.5,0.625]}`},
		{RoundIntegers, `{"x":2,"y":3.75,"c":[2,0.625]}`},
		{RoundAll, `{"x":2,"y":4,"c":[2,1]}`},
	}
	for _, c := range cases {
		out, err := New(0.5, WithRounding(c.r)).Value(mustDecode(t, in))
		if err != nil {
			t.Fatal(err)
		}
		if got := encode(t, out); got != c.want {
			t.Fatalf("%v: got %s, want %s", c.r, got, c.want)
		}
	}
}

func TestTransformOverflow(t *testing.T) {
	doc := mustDecode(t, `{"tokens":[{"x":1e308}]}`)
	_, err := Transform(doc, 10)
	if !perr.IsCode(err, perr.ErrorCodeInvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
	e, _ := perr.As(err)
	if e.Field() != "$.tokens[0].x" {
		t.Fatalf("field = %q", e.Field())
	}

	if _, err := Transform(mustDecode(t, `{"x":1e400}`), 2); !perr.IsCode(err, perr.ErrorCodeInvalidInput) {
		t.Fatalf("out-of-range literal: %v", err)
	}
	// unscaled huge literal passes through
	if _, err := Transform(mustDecode(t, `{"z":1e400}`), 2); err != nil {
		t.Fatalf("pass key should not be parsed: %v", err)
	}
}

func TestTransformerBytes(t *testing.T) {
	tr := New(0.5)
	out, err := tr.Transform([]byte(`{"grid":100,"name":"<b>"}`))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"grid":50,"name":"<b>"}` {
		t.Fatalf("Transform = %s", out)
	}
	if _, err := tr.Transform([]byte(`{"grid":`)); !perr.IsCode(err, perr.ErrorCodeDocumentDecode) {
		t.Fatalf("expected DocumentDecode, got %v", err)
	}
	if _, err := New(Identity).Transform([]byte("{\"name\":\"bad\xff\",\"x\":1}")); !perr.IsCode(err, perr.ErrorCodeDocumentDecode) {
		t.Fatalf("invalid UTF-8 should be DocumentDecode, got %v", err)
	}
	if tr.Factor() != 0.5 {
		t.Fatalf("Factor = %v", tr.Factor())
	}
}
