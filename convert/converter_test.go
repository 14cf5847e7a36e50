package convert

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type status string

type customer struct {
	Name string
}

type customerView customer

func TestConverter_To(t *testing.T) {
	name := "alice"
	when := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		to    reflect.Type
		want  any
	}{
		{"nil to pointer", nil, reflect.TypeOf((*int)(nil)), (*int)(nil)},
		{"nil to int", nil, reflect.TypeOf(0), 0},
		{"identity", 5, reflect.TypeOf(0), 5},
		{"widen", int32(5), reflect.TypeOf(int64(0)), int64(5)},
		{"narrow", int64(5), reflect.TypeOf(int8(0)), int8(5)},
		{"text to number", "17", reflect.TypeOf(0), 17},
		{"number to text", 17, reflect.TypeOf(""), "17"},
		{"named string", "paid", reflect.TypeOf(status("")), status("paid")},
		{"named to plain", status("paid"), reflect.TypeOf(""), "paid"},
		{"bool from int", 1, reflect.TypeOf(false), true},
		{"deref", &name, reflect.TypeOf(""), "alice"},
		{"wrap", "bob", reflect.TypeOf((*string)(nil)), func() any { s := "bob"; return &s }()},
		{"duration text", "1m30s", reflect.TypeOf(time.Duration(0)), 90 * time.Second},
		{"duration seconds", 1.5, reflect.TypeOf(time.Duration(0)), 1500 * time.Millisecond},
		{"duration to seconds", 2 * time.Second, reflect.TypeOf(float64(0)), 2.0},
		{"time to unix", when, reflect.TypeOf(int64(0)), when.Unix()},
		{"time to text", when, reflect.TypeOf(""), "2024-05-01T12:00:00Z"},
		{"any slice", []any{"a", "b"}, reflect.TypeOf([]string{}), []string{"a", "b"}},
		{"pointer slice", []any{&customer{Name: "x"}}, reflect.TypeOf([]customer{}), []customer{{Name: "x"}}},
		{"slice to array", []int{1, 2}, reflect.TypeOf([3]int{}), [3]int{1, 2, 0}},
		{"map", map[string]any{"a": 1}, reflect.TypeOf(map[string]int{}), map[string]int{"a": 1}},
		{"struct", customer{Name: "x"}, reflect.TypeOf(customerView{}), customerView{Name: "x"}},
		{"interface", customer{Name: "x"}, reflect.TypeOf((*any)(nil)).Elem(), customer{Name: "x"}},
	}

	c := Default()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.To(tt.value, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_Errors(t *testing.T) {
	c := Default()

	_, err := c.To(customer{}, reflect.TypeOf(0))
	assert.ErrorIs(t, err, ErrNotConvertible)

	_, err = c.To("nope", reflect.TypeOf(0))
	assert.ErrorIs(t, err, ErrNotConvertible)

	_, err = c.To([]any{"1", "x"}, reflect.TypeOf([]int{}))
	assert.ErrorIs(t, err, ErrNotConvertible)

	strict := New(CategorySafeNumber)

	v, err := strict.To(int16(3), reflect.TypeOf(int64(0)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	_, err = strict.To(int64(3), reflect.TypeOf(int16(0)))
	assert.ErrorIs(t, err, ErrNotConvertible)

	_, err = strict.To("3", reflect.TypeOf(0))
	assert.ErrorIs(t, err, ErrNotConvertible)

	_, err = strict.To([]int{1, 2, 3}, reflect.TypeOf([2]int{}))
	assert.ErrorIs(t, err, ErrNotConvertible)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		from, to KindEnum
		want     CategoryEnum
		ok       bool
	}{
		{KindInt, KindInt, CategoryNone, true},
		{KindInt8, KindInt, CategorySafeNumber, true},
		{KindInt, KindInt64, CategorySafeNumber, true},
		{KindInt64, KindInt, CategoryUnsafeNumber, true},
		{KindUint32, KindInt, CategoryUnsafeNumber, true},
		{KindUint16, KindInt, CategorySafeNumber, true},
		{KindInt32, KindFloat64, CategorySafeNumber, true},
		{KindInt32, KindFloat32, CategoryUnsafeNumber, true},
		{KindString, KindFloat64, CategoryTextNumber, true},
		{KindInt, KindBool, CategoryNumericBool, true},
		{KindString, KindBool, CategoryTextualBool, true},
		{KindTime, KindString, CategoryDatetime, true},
		{KindInt64, KindTime, CategoryTimestamp, true},
		{KindDuration, KindString, CategoryDuration, true},
		{KindInt64, KindDuration, CategoryNanoseconds, true},
		{KindFloat64, KindDuration, CategorySeconds, true},
		{KindBool, KindTime, CategoryNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+tt.to.String(), func(t *testing.T) {
			got, ok := Classify(tt.from, tt.to)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
