package scale

import (
	"math"
	"strconv"
	"strings"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/jsondoc"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
)

// Transformer scales documents. The zero value is not usable; build one with New
type Transformer struct {
	factor   Factor
	keys     KeyTable
	rounding Rounding
}

// Option tweaks a Transformer
type Option func(*Transformer)

// WithKeys replaces the default key table
func WithKeys(t KeyTable) Option {
	return func(tr *Transformer) {
		if t != nil {
			tr.keys = t
		}
	}
}

// WithRounding sets the rounding policy
func WithRounding(r Rounding) Option { return func(tr *Transformer) { tr.rounding = r } }

// New builds a Transformer for one factor
func New(f Factor, opts ...Option) *Transformer {
	tr := &Transformer{factor: f, keys: defaultKeys, rounding: RoundNone}
	for _, o := range opts {
		o(tr)
	}
	return tr
}

// Factor returns the configured factor
func (t *Transformer) Factor() Factor { return t.factor }

// Transform scales v with the default keys and no rounding
func Transform(v jsondoc.Value, f Factor) (jsondoc.Value, error) {
	return New(f).Value(v)
}

// Value returns a scaled copy of v; v is not modified
func (t *Transformer) Value(v jsondoc.Value) (jsondoc.Value, error) {
	w := walker{t: t}
	return w.walk(v, "")
}

// Transform decodes one document, scales it and encodes the result
func (t *Transformer) Transform(input []byte) ([]byte, error) {
	doc, err := jsondoc.Decode(input)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeDocumentDecode, "decode document"), "scale.transform")
	}
	out, err := t.Value(doc)
	if err != nil {
		return nil, err
	}
	b, err := jsondoc.Encode(out)
	if err != nil {
		return nil, perr.WithOp(perr.Wrap(err, perr.ErrorCodeInvalidInput, "encode document"), "scale.transform")
	}
	return b, nil
}

// walker carries the current path for error reporting
type walker struct {
	t    *Transformer
	path []string
}

func (w *walker) push(seg string) { w.path = append(w.path, seg) }
func (w *walker) pop()            { w.path = w.path[:len(w.path)-1] }

func (w *walker) where() string {
	if len(w.path) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range w.path {
		if strings.HasPrefix(s, "[") {
			b.WriteString(s)
			continue
		}
		b.WriteByte('.')
		b.WriteString(s)
	}
	return b.String()
}

// walk copies v; owner is the key of the nearest enclosing object member
func (w *walker) walk(v jsondoc.Value, owner string) (jsondoc.Value, error) {
	switch v.Kind() {
	case jsondoc.KindObject:
		src := v.Members()
		out := make([]jsondoc.Member, len(src))
		for i, m := range src {
			w.push(m.Key)
			var (
				nv  jsondoc.Value
				err error
			)
			if w.t.keys.Classify(owner, m.Key) == Scale {
				nv, err = w.spatial(m.Value, m.Key)
			} else {
				nv, err = w.walk(m.Value, m.Key)
			}
			if err != nil {
				return jsondoc.Value{}, err
			}
			w.pop()
			out[i] = jsondoc.Member{Key: m.Key, Value: nv}
		}
		return jsondoc.Object(out...), nil

	case jsondoc.KindArray:
		return w.array(v, owner, w.walk)
	}
	return v, nil
}

// spatial handles a value stored under a Scale key
func (w *walker) spatial(v jsondoc.Value, key string) (jsondoc.Value, error) {
	switch v.Kind() {
	case jsondoc.KindNumber:
		return w.number(v)
	case jsondoc.KindArray:
		return w.array(v, key, w.spatial)
	case jsondoc.KindObject:
		return w.walk(v, key)
	}
	// null, string, bool
	return v, nil
}

func (w *walker) array(v jsondoc.Value, owner string, each func(jsondoc.Value, string) (jsondoc.Value, error)) (jsondoc.Value, error) {
	src := v.Items()
	out := make([]jsondoc.Value, len(src))
	for i, item := range src {
		w.push("[" + strconv.Itoa(i) + "]")
		nv, err := each(item, owner)
		if err != nil {
			return jsondoc.Value{}, err
		}
		w.pop()
		out[i] = nv
	}
	return jsondoc.Array(out...), nil
}

func (w *walker) number(v jsondoc.Value) (jsondoc.Value, error) {
	if w.t.factor == Identity {
		// any literal, even one float64 cannot hold, is already its own product
		return v, nil
	}
	f, ok := v.Float()
	if !ok {
		return jsondoc.Value{}, w.fail("number %s is out of range", v.Number())
	}
	p := w.t.rounding.apply(f*w.t.factor.Float(), v.IsIntegerLiteral())
	if math.IsInf(p, 0) || math.IsNaN(p) {
		return jsondoc.Value{}, w.fail("scaling %s by %s overflows", v.Number(), w.t.factor)
	}
	if p == f {
		// keep the literal as written ("50.0" stays "50.0" under factor 1)
		return v, nil
	}
	return jsondoc.FloatValue(p), nil
}

func (w *walker) fail(format string, a ...any) error {
	return perr.WithOp(perr.WithField(perr.InvalidInputf(format, a...), w.where()), "scale.transform")
}
