package handler

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-assembler/container"
	"struct-assembler/operation"
)

type person struct {
	Name        string
	Display     string
	Gender      int
	GenderLabel string
	GenderCode  string
	Tags        string
	TagNames    []string
	Tagged      []tag
	Score       any
}

var intType = reflect.TypeOf(0)

type tag struct {
	Name string
}

type customer struct {
	ID     int
	Totals []float64
	Orders []map[string]any
	Values []any
	Prices []*float64
}

// counting records every Get it forwards.
type counting struct {
	container.Container
	calls int
	keys  [][]any
}

func (c *counting) Get(ctx context.Context, keys []any) (map[any]any, error) {
	c.calls++
	c.keys = append(c.keys, keys)

	return c.Container.Get(ctx, keys)
}

type failing struct{}

func (failing) Namespace() string { return "broken" }

func (failing) Get(context.Context, []any) (map[any]any, error) {
	return nil, errors.New("connection refused")
}

func genders() *counting {
	return &counting{Container: container.NewMap("genders", map[any]any{0: "F", 1: "M"})}
}

func exec(op *operation.AssembleOperation, targets ...any) []*Execution {
	return []*Execution{{Operation: op, Targets: targets}}
}

func TestOneToOne_Genders(t *testing.T) {
	c := genders()
	op := &operation.AssembleOperation{
		Key:       "Gender",
		Container: "genders",
		Mappings:  []operation.PropertyMapping{{Reference: "GenderLabel"}},
	}

	f, m, again, lost := &person{Gender: 0}, &person{Gender: 1}, &person{Gender: 1}, &person{Gender: 7, GenderLabel: "?"}

	h := NewOneToOne(WithLogr(testr.New(t)))
	require.NoError(t, h.Process(context.Background(), c, exec(op, f, nil, m, again, lost)))

	assert.Equal(t, "F", f.GenderLabel)
	assert.Equal(t, "M", m.GenderLabel)
	assert.Equal(t, "M", again.GenderLabel)
	assert.Equal(t, "?", lost.GenderLabel)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, []any{0, 1, 7}, c.keys[0])
}

func TestOneToOne_SharedContainerOneCall(t *testing.T) {
	c := genders()
	label := &operation.AssembleOperation{
		Key: "Gender", Container: "genders",
		Mappings: []operation.PropertyMapping{{Reference: "GenderLabel"}},
	}
	code := &operation.AssembleOperation{
		Key: "Gender", Container: "genders", ID: "code",
		Mappings: []operation.PropertyMapping{{Reference: "GenderCode"}},
	}

	p := &person{Gender: 1}

	err := NewOneToOne().Process(context.Background(), c, []*Execution{
		{Operation: label, Targets: []any{p}},
		{Operation: code, Targets: []any{p}},
	})
	require.NoError(t, err)

	assert.Equal(t, "M", p.GenderLabel)
	assert.Equal(t, "M", p.GenderCode)
	assert.Equal(t, 1, c.calls)
}

func TestOneToOne_NoKeysNoCall(t *testing.T) {
	c := genders()
	op := &operation.AssembleOperation{
		Key: "Score", Container: "genders",
		Mappings: []operation.PropertyMapping{{Reference: "GenderLabel"}},
	}

	require.NoError(t, NewOneToOne().Process(context.Background(), c, exec(op, &person{}, nil)))
	assert.Zero(t, c.calls)
}

func TestOneToOne_KeyType(t *testing.T) {
	c := genders()
	op := &operation.AssembleOperation{
		Key: "Name", Container: "genders", KeyType: intType,
		Mappings: []operation.PropertyMapping{{Reference: "GenderLabel"}},
	}

	p, bad := &person{Name: "1"}, &person{Name: "x"}

	require.NoError(t, NewOneToOne().Process(context.Background(), c, exec(op, p, bad)))
	assert.Equal(t, "M", p.GenderLabel)
	assert.Empty(t, bad.GenderLabel)
	assert.Equal(t, []any{1}, c.keys[0])
}

func TestOneToOne_NeverWritesNil(t *testing.T) {
	c := container.NewMap("people", map[any]any{
		1: map[string]any{"name": nil},
		2: nil,
	})
	op := &operation.AssembleOperation{
		Key: "Gender", Container: "people",
		Mappings: []operation.PropertyMapping{{Source: "name", Reference: "Display"}, {Source: "missing", Reference: "Name"}},
	}

	p1 := &person{Gender: 1, Display: "kept", Name: "kept"}
	p2 := &person{Gender: 2, Display: "kept"}

	require.NoError(t, NewOneToOne().Process(context.Background(), c, exec(op, p1, p2)))
	assert.Equal(t, "kept", p1.Display)
	assert.Equal(t, "kept", p1.Name)
	assert.Equal(t, "kept", p2.Display)
}

func TestOneToOne_ReferenceNull(t *testing.T) {
	op := &operation.AssembleOperation{
		Key: "Gender", Container: "genders", MappingStrategy: operation.StrategyReferenceNull,
		Mappings: []operation.PropertyMapping{{Reference: "GenderLabel"}},
	}

	set, unset := &person{Gender: 1, GenderLabel: "X"}, &person{Gender: 1}

	require.NoError(t, NewOneToOne().Process(context.Background(), genders(), exec(op, set, unset)))
	assert.Equal(t, "X", set.GenderLabel)
	assert.Equal(t, "M", unset.GenderLabel)

	op.MappingStrategy = "sometimes"
	err := NewOneToOne().Process(context.Background(), genders(), exec(op, unset))
	assert.ErrorIs(t, err, operation.ErrConfiguration)
}

func TestOneToOne_SelfIntrospection(t *testing.T) {
	op := &operation.AssembleOperation{
		Mappings: []operation.PropertyMapping{{Source: "Name", Reference: "Display"}},
	}

	p := &person{Name: "Ada"}

	require.NoError(t, NewOneToOne().Process(context.Background(), nil, exec(op, p, nil)))
	assert.Equal(t, "Ada", p.Display)
}

func TestOneToOne_ContainerError(t *testing.T) {
	op := &operation.AssembleOperation{
		Key: "Gender", Container: "broken",
		Mappings: []operation.PropertyMapping{{Reference: "GenderLabel"}},
	}

	err := NewOneToOne().Process(context.Background(), failing{}, exec(op, &person{Gender: 1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `container "broken"`)
}

func TestOneToMany(t *testing.T) {
	c := &counting{Container: container.NewMap("orders", map[any]any{
		1: []map[string]any{{"total": 1.5}, {"total": 2.5}, {"total": 4.0}},
		2: []map[string]any{},
	})}
	op := &operation.AssembleOperation{
		Key: "ID", Container: "orders",
		Mappings: []operation.PropertyMapping{{Source: "total", Reference: "Totals"}, {Reference: "Orders"}},
	}

	three, none := &customer{ID: 1}, &customer{ID: 2}

	require.NoError(t, NewOneToMany().Process(context.Background(), c, exec(op, three, none)))
	assert.Equal(t, []float64{1.5, 2.5, 4.0}, three.Totals)
	assert.Len(t, three.Orders, 3)
	assert.Nil(t, none.Totals)
	assert.Nil(t, none.Orders)
	assert.Equal(t, 1, c.calls)
}

func TestOneToMany_OneEntryPerRow(t *testing.T) {
	c := container.NewMap("orders", map[any]any{
		1: []map[string]any{{"total": 1.5}, {"total": nil}, {"note": "x"}, {"total": 4.0}},
	})
	op := &operation.AssembleOperation{
		Key: "ID", Container: "orders",
		Mappings: []operation.PropertyMapping{
			{Source: "total", Reference: "Values"},
			{Source: "total", Reference: "Prices"},
			{Source: "total", Reference: "Totals"},
		},
	}

	got := &customer{ID: 1}

	require.NoError(t, NewOneToMany().Process(context.Background(), c, exec(op, got)))
	assert.Equal(t, []any{1.5, nil, nil, 4.0}, got.Values)
	require.Len(t, got.Prices, 4)
	assert.Equal(t, 1.5, *got.Prices[0])
	assert.Nil(t, got.Prices[1])
	assert.Nil(t, got.Prices[2])
	assert.Equal(t, 4.0, *got.Prices[3])
	assert.Equal(t, []float64{1.5, 0, 0, 4.0}, got.Totals)
}

func TestManyToMany(t *testing.T) {
	c := &counting{Container: container.NewMap("tags", map[any]any{
		"a": tag{Name: "A"},
		"c": tag{Name: "C"},
	})}
	op := &operation.AssembleOperation{
		Key: "Tags", Container: "tags",
		Mappings: []operation.PropertyMapping{{Source: "Name", Reference: "TagNames"}, {Reference: "Tagged"}},
	}

	p := &person{Tags: "a, b, c"}
	q := &person{Tags: "c,a,c"}
	r := &person{Tags: "b"}

	require.NoError(t, NewManyToMany().Process(context.Background(), c, exec(op, p, q, r)))
	assert.Equal(t, []string{"A", "C"}, p.TagNames)
	assert.Equal(t, []tag{{Name: "A"}, {Name: "C"}}, p.Tagged)
	assert.Equal(t, []string{"C", "A"}, q.TagNames)
	assert.Nil(t, r.TagNames)

	assert.Equal(t, 1, c.calls)
	assert.Equal(t, []any{"a", "b", "c"}, c.keys[0])
}

// A scalar that is neither a string nor a collection yields no keys rather
// than a single key.
func TestManyToMany_ScalarHasNoKeys(t *testing.T) {
	c := genders()
	op := &operation.AssembleOperation{
		Key: "Gender", Container: "genders",
		Mappings: []operation.PropertyMapping{{Reference: "TagNames"}},
	}

	p := &person{Gender: 1}

	require.NoError(t, NewManyToMany().Process(context.Background(), c, exec(op, p)))
	assert.Nil(t, p.TagNames)
	assert.Zero(t, c.calls)
}

func TestDefaultSplitter(t *testing.T) {
	tests := []struct {
		name string
		sep  string
		raw  any
		want []any
	}{
		{"comma and space", "", "a, b", []any{"a", "b"}},
		{"empty tokens and duplicates", ",", "a,,a, b ,", []any{"a", "b"}},
		{"custom separator", "|", "x|y|x", []any{"x", "y"}},
		{"slice passes through", "", []int{1, 2, 1}, []any{1, 2}},
		{"array with nil", "", [2]any{nil, "k"}, []any{"k"}},
		{"pointer to string", "", ptr("p,q"), []any{"p", "q"}},
		{"blank string", "", "  ", nil},
		{"scalar", "", 42, nil},
		{"nil", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultSplitter{Separator: tt.sep}.Split(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got)

				return
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssembleHandlers(t *testing.T) {
	hs := AssembleHandlers()
	assert.Len(t, hs, 3)
	assert.Contains(t, hs, operation.HandlerManyToMany)

	custom := NewManyToMany(WithSplitter(DefaultSplitter{Separator: ";"}), WithStrategy("always", NotNull{}))
	c := &counting{Container: container.NewMap("tags", map[any]any{"a": tag{Name: "A"}, "b": tag{Name: "B"}})}
	op := &operation.AssembleOperation{
		Key: "Tags", Container: "tags", MappingStrategy: "always",
		Mappings: []operation.PropertyMapping{{Source: "Name", Reference: "TagNames"}},
	}

	p := &person{Tags: "a;b"}
	require.NoError(t, custom.Process(context.Background(), c, exec(op, p)))
	assert.Equal(t, []string{"A", "B"}, p.TagNames)
}

func ptr[T any](v T) *T { return &v }
