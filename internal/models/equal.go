package models

// Equal reports whether a and b are the same JSON value. Object members must
// appear in the same order; BigInt values compare by exact integer value.
func Equal(a, b Value) bool {
	if KindOf(a) != KindOf(b) {
		return false
	}
	switch x := a.(type) {
	case nil, Null:
		return true
	case Bool:
		return x == b.(Bool)
	case String:
		return x == b.(String)
	case Number:
		return x == b.(Number)
	case BigInt:
		return x.Int().Cmp(b.(BigInt).Int()) == 0
	case *Array:
		y := b.(*Array)
		if len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case *Object:
		y := b.(*Object)
		if len(x.keys) != len(y.keys) {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k {
				return false
			}
			if !Equal(x.values[k], y.values[k]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v. v must not contain cycles.
func Clone(v Value) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case BigInt:
		return NewBigInt(x.Int())
	case *Array:
		out := &Array{Items: make([]Value, len(x.Items))}
		for i, item := range x.Items {
			out.Items[i] = Clone(item)
		}
		return out
	case *Object:
		out := NewObject()
		for _, k := range x.keys {
			out.Set(k, Clone(x.values[k]))
		}
		return out
	default:
		return v
	}
}
