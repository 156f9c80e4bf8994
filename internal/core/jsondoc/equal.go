package jsondoc

import "math"

// Equal reports deep equality. Numbers compare by literal text and object members by
// position, so key order matters
func Equal(a, b Value) bool {
	return equal(a, b, func(x, y Value) bool { return x.num == y.num })
}

// ApproxEqual is Equal with numbers compared by value within a relative tolerance
func ApproxEqual(a, b Value, tol float64) bool {
	return equal(a, b, func(x, y Value) bool {
		if x.num == y.num {
			return true
		}
		fx, okx := x.Float()
		fy, oky := y.Float()
		if !okx || !oky {
			return false
		}
		diff := math.Abs(fx - fy)
		scale := math.Max(math.Abs(fx), math.Abs(fy))
		return diff <= tol || diff <= tol*scale
	})
}

func equal(a, b Value, num func(x, y Value) bool) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return num(a, b)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !equal(a.arr[i], b.arr[i], num) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for i := range a.obj {
			if a.obj[i].Key != b.obj[i].Key || !equal(a.obj[i].Value, b.obj[i].Value, num) {
				return false
			}
		}
		return true
	}
	return false
}
