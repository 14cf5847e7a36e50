package parser

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"struct-assembler/operation"
)

type declaredReport struct {
	OwnerID   string
	OwnerName string
	Sections  []*reportSection
}

type reportSection struct {
	Title string
}

func (*declaredReport) DeclareOperations(scope string) *Declarations {
	d := &Declarations{
		Assembles: []*operation.AssembleOperation{{
			Key:       "OwnerID",
			Container: "users",
			Mappings:  []operation.PropertyMapping{{Source: "name", Reference: "OwnerName"}},
		}},
	}

	if scope == "full" {
		d.Disassembles = []DisassembleDecl{{Key: "Sections", Sort: -1}}
	}

	return d
}

func TestDeclarerResolver(t *testing.T) {
	d, err := DeclarerResolver{}.Resolve(reflect.TypeOf(declaredReport{}), "")
	require.NoError(t, err)
	assert.Len(t, d.Assembles, 1)
	assert.Empty(t, d.Disassembles)

	d, err = DeclarerResolver{}.Resolve(reflect.TypeOf(reportSection{}), "")
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
}

func TestParser_Declarer(t *testing.T) {
	p := New()

	m, err := p.ParseScoped(reflect.TypeOf(declaredReport{}), "full")
	require.NoError(t, err)
	require.Len(t, m.Assembles(), 1)
	assert.Equal(t, "OwnerID@users#one-to-one", m.Assembles()[0].Identity())

	require.Len(t, m.Disassembles(), 1)
	sections := m.Disassembles()[0]
	assert.Equal(t, reflect.TypeOf(reportSection{}), sections.NestedType)
	assert.Equal(t, "full", sections.Static().Scope)
	assert.True(t, sections.Static().IsEmpty())
}
