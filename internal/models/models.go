// Package models defines the in-memory JSON document model.
//
// A Value is one of a closed set of variants: Null, Bool, String, Number,
// BigInt, *Array and *Object. Integers whose magnitude exceeds
// MaxSafeInteger are held as BigInt so they never lose precision through a
// float64. Containers are pointers; their identity is what cycle detection
// in the formatter tracks.
package models

import (
	"math/big"
)

// MaxSafeInteger is the largest integer a float64 represents exactly (2^53-1).
const MaxSafeInteger = 1<<53 - 1

var (
	maxSafe = big.NewInt(MaxSafeInteger)
	minSafe = big.NewInt(-MaxSafeInteger)
)

// Kind identifies the concrete variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindString
	KindNumber
	KindBigInt
	KindArray
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a JSON value. Only the types in this package implement it.
type Value interface {
	Kind() Kind
	sealed()
}

// Null is the JSON null literal.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) sealed()    {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) sealed()    {}

// String is a JSON string.
type String string

func (String) Kind() Kind { return KindString }
func (String) sealed()    {}

// Number is a JSON number that fits a float64 without losing integer precision.
type Number float64

func (Number) Kind() Kind { return KindNumber }
func (Number) sealed()    {}

// BigInt is an exact integer outside the float64 safe range.
type BigInt struct {
	v *big.Int
}

func (BigInt) Kind() Kind { return KindBigInt }
func (BigInt) sealed()    {}

// NewBigInt wraps a copy of n without range normalisation. Prefer NewInteger.
func NewBigInt(n *big.Int) BigInt {
	return BigInt{v: new(big.Int).Set(n)}
}

// Int returns a copy of the integer.
func (b BigInt) Int() *big.Int {
	if b.v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.v)
}

// String returns the exact decimal digits.
func (b BigInt) String() string {
	if b.v == nil {
		return "0"
	}
	return b.v.String()
}

// NewInteger returns a Number when n is within ±MaxSafeInteger and a BigInt otherwise.
func NewInteger(n *big.Int) Value {
	if IsSafeInteger(n) {
		return Number(float64(n.Int64()))
	}
	return NewBigInt(n)
}

// IsSafeInteger reports whether n can be held by a float64 exactly.
func IsSafeInteger(n *big.Int) bool {
	return n.Cmp(maxSafe) <= 0 && n.Cmp(minSafe) >= 0
}

// Array is an ordered sequence of values.
type Array struct {
	Items []Value
}

func (*Array) Kind() Kind { return KindArray }
func (*Array) sealed()    {}

// NewArray creates an array holding items.
func NewArray(items ...Value) *Array {
	return &Array{Items: append([]Value(nil), items...)}
}

// Len returns the number of items.
func (a *Array) Len() int {
	return len(a.Items)
}

// Get returns the item at i.
func (a *Array) Get(i int) (Value, bool) {
	if i < 0 || i >= len(a.Items) {
		return nil, false
	}
	return a.Items[i], true
}

// Append adds v at the end.
func (a *Array) Append(v Value) {
	a.Items = append(a.Items, v)
}

// Object is a mapping from string keys to values that remembers insertion order.
type Object struct {
	keys   []string
	values map[string]Value
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) sealed()    {}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the member names in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Get returns the member named key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, exists := o.values[key]; !exists {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Range calls fn for each member in order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// IsContainer reports whether v is an array or an object.
func IsContainer(v Value) bool {
	switch v.(type) {
	case *Array, *Object:
		return true
	default:
		return false
	}
}

// KindOf returns the kind of v, treating a nil Value as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
