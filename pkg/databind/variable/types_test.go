package variable

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Value int
	Next  *node
}

func TestTypes_ResolveDerives(t *testing.T) {
	types := NewTypes()

	tests := []struct {
		name string
		typ  reflect.Type
		kind Kind
	}{
		{"int", reflect.TypeFor[int](), KindScalar},
		{"string", reflect.TypeFor[string](), KindScalar},
		{"slice of float", reflect.TypeFor[[]float64](), KindArray},
		{"array of bool", reflect.TypeFor[[4]bool](), KindArray},
		{"nested slices", reflect.TypeFor[[][]int](), KindArray},
		{"pointer to int", reflect.TypeFor[*int](), KindPointer},
		{"slice of pointers", reflect.TypeFor[[]*string](), KindArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := types.Resolve(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, def.Kind())

			again, err := types.Resolve(tt.typ)
			require.NoError(t, err)
			assert.Same(t, def, again)
		})
	}
}

func TestTypes_UnregisteredStruct(t *testing.T) {
	types := NewTypes()

	_, err := types.Resolve(reflect.TypeFor[point]())
	assert.ErrorIs(t, err, ErrTypeNotRegistered)

	_, err = types.Resolve(reflect.TypeFor[[]point]())
	assert.ErrorIs(t, err, ErrTypeNotRegistered)

	_, err = types.Resolve(reflect.TypeFor[map[string]int]())
	assert.ErrorIs(t, err, ErrTypeNotRegistered)
}

func TestTypes_RegisterKindChecks(t *testing.T) {
	types := NewTypes()

	_, err := RegisterScalar[point](types)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = RegisterStruct[int](types)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = RegisterArray[int](types)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = RegisterPointer[int](types)
	assert.ErrorIs(t, err, ErrTypeMismatch)

	def, err := RegisterScalar[int](types)
	require.NoError(t, err)
	assert.Equal(t, KindScalar, def.Kind())
}

func TestTypes_RegisterStructTwiceSharesDefinition(t *testing.T) {
	types := NewTypes()

	a, err := RegisterStruct[point](types)
	require.NoError(t, err)
	a.Field("x", "X")

	b, err := RegisterStruct[point](types)
	require.NoError(t, err)
	assert.Same(t, a.Definition(), b.Definition())
	assert.Equal(t, []string{"x"}, b.Definition().Members())
}

func TestTypes_SelfReferentialStruct(t *testing.T) {
	types := NewTypes()
	h, err := RegisterStruct[node](types)
	require.NoError(t, err)
	h.Field("value", "Value").Field("next", "Next")

	list := &node{Value: 1, Next: &node{Value: 2}}
	def, _ := types.Lookup(reflect.TypeFor[node]())
	root := New(def, reflect.ValueOf(list).Elem())

	assert.Equal(t, int64(2), get(t, root, "next.value"))
}

func TestStructHandle_Panics(t *testing.T) {
	types := NewTypes()
	h, err := RegisterStruct[sample](types)
	require.NoError(t, err)

	assert.Panics(t, func() { h.Field("a", "Missing") })
	assert.Panics(t, func() { h.Field("a", "hidden") })
	assert.Panics(t, func() { h.Field("origin", "Origin") }) // point not registered

	h.Field("i", "I")
	assert.Panics(t, func() { h.Field("i", "I") })
	assert.Panics(t, func() { h.Field("bad name", "X") })
	assert.Panics(t, func() { MemberFunc[sample, int](h, "f", nil, nil) })
}
