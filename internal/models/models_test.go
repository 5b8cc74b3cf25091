package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInteger(t *testing.T) {
	tests := []struct {
		name     string
		digits   string
		wantKind Kind
	}{
		{"zero", "0", KindNumber},
		{"max safe", "9007199254740991", KindNumber},
		{"min safe", "-9007199254740991", KindNumber},
		{"above max safe", "9007199254740992", KindBigInt},
		{"below min safe", "-9007199254740993", KindBigInt},
		{"huge", "123456789012345678901234567890", KindBigInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := new(big.Int).SetString(tt.digits, 10)
			require.True(t, ok)

			v := NewInteger(n)
			assert.Equal(t, tt.wantKind, v.Kind())
			if b, ok := v.(BigInt); ok {
				assert.Equal(t, tt.digits, b.String())
			}
		})
	}
}

func TestBigInt_IsImmutable(t *testing.T) {
	n, _ := new(big.Int).SetString("99999999999999999999", 10)
	b := NewBigInt(n)
	n.SetInt64(1)
	b.Int().SetInt64(2)

	assert.Equal(t, "99999999999999999999", b.String())
	assert.Equal(t, "0", BigInt{}.String())
}

func TestObject_KeepsInsertionOrder(t *testing.T) {
	o := NewObject()
	o.Set("z", Number(1))
	o.Set("a", Number(2))
	o.Set("m", Number(3))
	o.Set("z", Number(4))

	assert.Equal(t, []string{"z", "a", "m"}, o.Keys())
	v, ok := o.Get("z")
	require.True(t, ok)
	assert.Equal(t, Number(4), v)

	assert.True(t, o.Delete("a"))
	assert.False(t, o.Delete("a"))
	assert.Equal(t, []string{"z", "m"}, o.Keys())

	var seen []string
	o.Range(func(key string, _ Value) bool {
		seen = append(seen, key)
		return false
	})
	assert.Equal(t, []string{"z"}, seen)
}

func TestObject_ZeroValueIsUsable(t *testing.T) {
	var o Object
	o.Set("k", Bool(true))
	assert.Equal(t, 1, o.Len())
}

func TestArray(t *testing.T) {
	a := NewArray(String("a"))
	a.Append(Null{})

	assert.Equal(t, 2, a.Len())
	_, ok := a.Get(2)
	assert.False(t, ok)
	_, ok = a.Get(-1)
	assert.False(t, ok)
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindNull, KindOf(nil))
	assert.Equal(t, "boolean", KindBool.String())
	assert.Equal(t, "bigint", KindBigInt.String())
	assert.Equal(t, "unknown", Kind(99).String())
	assert.True(t, IsContainer(NewArray()))
	assert.True(t, IsContainer(NewObject()))
	assert.False(t, IsContainer(String("{}")))
}

func TestEqual(t *testing.T) {
	big1, _ := new(big.Int).SetString("18446744073709551616", 10)
	big2, _ := new(big.Int).SetString("18446744073709551616", 10)

	ab := NewObject()
	ab.Set("a", Number(1))
	ab.Set("b", Number(2))
	ba := NewObject()
	ba.Set("b", Number(2))
	ba.Set("a", Number(1))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nil is null", nil, Null{}, true},
		{"strings", String("x"), String("x"), true},
		{"string vs number", String("1"), Number(1), false},
		{"big integers", NewBigInt(big1), NewBigInt(big2), true},
		{"arrays", NewArray(Number(1), Null{}), NewArray(Number(1), Null{}), true},
		{"array lengths", NewArray(Number(1)), NewArray(Number(1), Number(1)), false},
		{"member order matters", ab, ba, false},
		{"same object", ab, ab, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestClone(t *testing.T) {
	inner := NewArray(Number(1))
	o := NewObject()
	o.Set("list", inner)

	c := Clone(o).(*Object)
	require.True(t, Equal(o, c))

	inner.Append(Number(2))
	got, _ := c.Get("list")
	assert.Equal(t, 1, got.(*Array).Len())
	assert.Equal(t, Null{}, Clone(nil))
}
