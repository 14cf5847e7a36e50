package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-assembler/operation"
)

type fileOrder struct {
	CustomerID   int
	CustomerName string
	Lines        []fileLine
}

type fileLine struct {
	SKU   string
	Title string
}

const yamlDescriptor = `
types:
  - type: parser.fileOrder
    assemble:
      - key: CustomerID
        container: customers
        props: ["name:CustomerName"]
        key_type: int64
        groups: detail
        if: notnil:CustomerID
    disassemble:
      - key: Lines
  - type: fileLine
    assemble:
      - key: SKU
        container: products
        props: title:Title
        sort: 2
`

const tomlDescriptor = `
[[types]]
type = "struct-assembler/parser.fileOrder"
scope = ["admin"]

[[types.assemble]]
key = "CustomerID"
container = "customers"
handler = "one-to-one"
props = ["name:CustomerName"]
`

func TestParseDescriptor_YAML(t *testing.T) {
	d, err := ParseDescriptor([]byte(yamlDescriptor), FormatYAML)
	require.NoError(t, err)
	require.Len(t, d.Types, 2)
	assert.Equal(t, StringOrArray{"detail"}, d.Types[0].Assemble[0].Groups)
	assert.Equal(t, StringOrArray{"title:Title"}, d.Types[1].Assemble[0].Props)

	p := New(WithResolvers(NewFileResolver(d)))

	m, err := p.Parse(reflect.TypeOf(fileOrder{}))
	require.NoError(t, err)
	require.Len(t, m.Assembles(), 1)

	op := m.Assembles()[0]
	assert.Equal(t, reflect.TypeOf(int64(0)), op.KeyType)
	assert.Equal(t, []string{"detail"}, op.Groups)
	assert.NotNil(t, op.Condition)

	require.Len(t, m.Disassembles(), 1)
	lines := m.Disassembles()[0].Static()
	require.NotNil(t, lines)
	require.Len(t, lines.Assembles(), 1)
	assert.Equal(t, 2, lines.Assembles()[0].Sort)
}

func TestParseDescriptor_TOMLScoped(t *testing.T) {
	d, err := ParseDescriptor([]byte(tomlDescriptor), FormatTOML)
	require.NoError(t, err)

	p := New(WithResolvers(NewFileResolver(d)))

	m, err := p.Parse(reflect.TypeOf(fileOrder{}))
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())

	m, err = p.ParseScoped(reflect.TypeOf(fileOrder{}), "admin")
	require.NoError(t, err)
	assert.Len(t, m.Assembles(), 1)
}

func TestParseDescriptor_TOMLSingleStrings(t *testing.T) {
	data := `
[[types]]
type = "parser.fileOrder"
scope = "admin"

[[types.assemble]]
key = "CustomerID"
container = "customers"
props = 'name:CustomerName'
groups = "detail"
`

	d, err := ParseDescriptor([]byte(data), FormatTOML)
	require.NoError(t, err)
	require.Len(t, d.Types, 1)
	assert.Equal(t, StringOrArray{"admin"}, d.Types[0].Scope)
	assert.Equal(t, StringOrArray{"name:CustomerName"}, d.Types[0].Assemble[0].Props)
	assert.Equal(t, StringOrArray{"detail"}, d.Types[0].Assemble[0].Groups)

	m, err := New(WithResolvers(NewFileResolver(d))).ParseScoped(reflect.TypeOf(fileOrder{}), "admin")
	require.NoError(t, err)
	require.Len(t, m.Assembles(), 1)
	assert.Equal(t, []string{"detail"}, m.Assembles()[0].Groups)

	_, err = ParseDescriptor([]byte("[[types]]\ntype = \"X\"\nscope = [\"a\", 1]\n"), FormatTOML)
	assert.Error(t, err)

	_, err = ParseDescriptor([]byte("[[types]]\ntype = \"X\"\nscope = 1\n"), FormatTOML)
	assert.Error(t, err)
}

func TestParseDescriptor_Warnings(t *testing.T) {
	d, err := ParseDescriptor([]byte("types:\n  - type: parser.fileLine\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"[parser.fileLine]: [empty-type] declares no operations"}, d.Warnings())

	full, err := ParseDescriptor([]byte(yamlDescriptor), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, full.Warnings())

	r := NewFileResolver(full, d)
	assert.Equal(t, d.Warnings(), r.Warnings())
}

func TestParseDescriptor_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"unknown field", "types:\n  - type: X\n    colour: red\n", FormatYAML},
		{"missing props", "types:\n  - type: X\n    assemble:\n      - key: ID\n", FormatYAML},
		{"bad key type", "types:\n  - type: X\n    assemble:\n      - key: ID\n        props: a\n        key_type: complex\n", FormatYAML},
		{"missing disassemble key", "[[types]]\ntype = \"X\"\n[[types.disassemble]]\ntype = \"dynamic\"\n", FormatTOML},
		{"unknown toml field", "[[types]]\ntype = \"X\"\ncolour = \"red\"\n", FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDescriptor([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}

	_, err := ParseDescriptor(nil, FormatYAML)
	assert.NoError(t, err)

	_, err = ParseDescriptor(nil, Format("json"))
	assert.Error(t, err)
}

func TestParseDescriptor_ValidationIsConfigError(t *testing.T) {
	_, err := ParseDescriptor([]byte("types:\n  - assemble:\n      - key: ID\n"), FormatYAML)
	require.Error(t, err)
	assert.ErrorIs(t, err, operation.ErrConfiguration)
}

func TestLoadFileResolver(t *testing.T) {
	dir := t.TempDir()

	yamlFile := filepath.Join(dir, "ops.yaml")
	require.NoError(t, os.WriteFile(yamlFile, []byte(yamlDescriptor), 0o600))

	tomlFile := filepath.Join(dir, "ops.toml")
	require.NoError(t, os.WriteFile(tomlFile, []byte(tomlDescriptor), 0o600))

	r, err := LoadFileResolver(yamlFile, tomlFile)
	require.NoError(t, err)

	d, err := r.Resolve(reflect.TypeOf(fileOrder{}), "admin")
	require.NoError(t, err)
	assert.Len(t, d.Assembles, 2)

	_, err = LoadFileResolver(filepath.Join(dir, "ops.json"))
	assert.Error(t, err)

	_, err = LoadFileResolver(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestMatchesType(t *testing.T) {
	typ := reflect.TypeOf(fileOrder{})

	assert.True(t, matchesType("fileOrder", typ))
	assert.True(t, matchesType("parser.fileOrder", typ))
	assert.True(t, matchesType("struct-assembler/parser.fileOrder", typ))
	assert.False(t, matchesType("other.fileOrder", typ))
	assert.False(t, matchesType("", reflect.TypeOf(struct{}{})))
}
