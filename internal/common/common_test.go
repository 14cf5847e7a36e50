package common

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlices(t *testing.T) {
	assert.True(t, IsSingle([]string{"a"}))
	assert.False(t, IsSingle([]string{"a", "b"}))

	a, b := Unpack2([]string{"src"})
	assert.Equal(t, "src", a)
	assert.Empty(t, b)

	a, b = Unpack2([]string{"src", "ref", "extra"})
	assert.Equal(t, "src", a)
	assert.Equal(t, "ref", b)
}

func TestIsBlank(t *testing.T) {
	var nilPtr *int

	var nilMap map[string]int

	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"nil", nil, true},
		{"typed nil pointer", nilPtr, true},
		{"nil map", nilMap, true},
		{"empty string", "", true},
		{"empty slice", []int{}, true},
		{"pointer to empty slice", &[]int{}, true},
		{"zero int", 0, false},
		{"string", "x", false},
		{"struct", struct{}{}, false},
		{"map", map[string]int{"a": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsBlank(tt.value))
		})
	}
}

func TestLeafType(t *testing.T) {
	type item struct{}

	assert.Equal(t, reflect.TypeOf(item{}), LeafType(reflect.TypeOf([][]*item{})))
	assert.Equal(t, reflect.TypeOf(item{}), LeafType(reflect.TypeOf(&[3]item{})))
	assert.Equal(t, reflect.TypeOf(0), LeafType(reflect.TypeOf(0)))
	assert.Equal(t, reflect.TypeOf(item{}), Indirect(reflect.TypeOf((**item)(nil))))
	assert.True(t, IsCollection(&[]int{}))
	assert.False(t, IsCollection("abc"))
}
