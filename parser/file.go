package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"
	"gopkg.in/yaml.v3"

	"struct-assembler/internal/diagnostic"
	"struct-assembler/operation"
)

// Descriptor is the root of a YAML or TOML operation descriptor file.
//
//	types:
//	  - type: store.Order
//	    assemble:
//	      - key: CustomerID
//	        container: customers
//	        props: ["name:CustomerName", ":Customer"]
//	    disassemble:
//	      - key: Items
type Descriptor struct {
	Types []TypeDescriptor `yaml:"types" toml:"types" validate:"dive"`

	diags diagnostic.Diagnostics
}

// Warnings describes suspicious but valid entries, such as types declaring
// no operations.
func (d *Descriptor) Warnings() []string {
	return warnings(d.diags)
}

// TypeDescriptor declares the operations of one type.
type TypeDescriptor struct {
	// Type is matched against "path/to/pkg.Name", "pkg.Name" or "Name".
	Type        string                  `yaml:"type" toml:"type" validate:"required"`
	Scope       StringOrArray           `yaml:"scope" toml:"scope"`
	Assemble    []AssembleDescriptor    `yaml:"assemble" toml:"assemble" validate:"dive"`
	Disassemble []DisassembleDescriptor `yaml:"disassemble" toml:"disassemble" validate:"dive"`
}

// AssembleDescriptor declares one assemble operation.
type AssembleDescriptor struct {
	ID        string        `yaml:"id" toml:"id"`
	Key       string        `yaml:"key" toml:"key"`
	KeyType   string        `yaml:"key_type" toml:"key_type" validate:"omitempty,oneof=int int8 int16 int32 int64 uint uint8 uint16 uint32 uint64 float32 float64 string bool"`
	Container string        `yaml:"container" toml:"container"`
	Handler   string        `yaml:"handler" toml:"handler"`
	Props     StringOrArray `yaml:"props" toml:"props" validate:"required,min=1,dive,required"`
	Strategy  string        `yaml:"strategy" toml:"strategy"`
	Groups    StringOrArray `yaml:"groups" toml:"groups"`
	Sort      int           `yaml:"sort" toml:"sort"`
	If        string        `yaml:"if" toml:"if"`
}

// DisassembleDescriptor declares one disassemble operation.
type DisassembleDescriptor struct {
	ID      string        `yaml:"id" toml:"id"`
	Key     string        `yaml:"key" toml:"key" validate:"required"`
	Handler string        `yaml:"handler" toml:"handler"`
	Type    string        `yaml:"type" toml:"type" validate:"omitempty,oneof=static dynamic"`
	Groups  StringOrArray `yaml:"groups" toml:"groups"`
	Sort    int           `yaml:"sort" toml:"sort"`
}

// StringOrArray accepts a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		*s = StringOrArray{}
		if str != "" {
			*s = StringOrArray{str}
		}

		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil
	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// UnmarshalTOML implements unstable.Unmarshaler for StringOrArray.
func (s *StringOrArray) UnmarshalTOML(node *unstable.Node) error {
	switch node.Kind {
	case unstable.String:
		*s = StringOrArray{}
		if len(node.Data) > 0 {
			*s = StringOrArray{string(node.Data)}
		}

		return nil
	case unstable.Array:
		arr := StringOrArray{}

		it := node.Children()
		for it.Next() {
			n := it.Node()
			if n.Kind != unstable.String {
				return fmt.Errorf("expected string array element, got %v", n.Kind)
			}

			arr = append(arr, string(n.Data))
		}

		*s = arr

		return nil
	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// Format is a descriptor file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var errUnknownFormat = errors.New("unknown descriptor format")

// FormatOf picks the format from a file extension.
func FormatOf(file string) (Format, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownFormat, file)
	}
}

// ParseDescriptor decodes and validates a descriptor.
func ParseDescriptor(data []byte, format Format) (*Descriptor, error) {
	var d Descriptor

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode descriptor: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		dec.EnableUnmarshalerInterface()

		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode descriptor: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownFormat, format)
	}

	d.diags = checkDescriptor(&d)
	if d.diags.HasErrors() {
		return nil, d.diags.Err()
	}

	return &d, nil
}

// LoadDescriptor reads and parses a descriptor file.
func LoadDescriptor(file string) (*Descriptor, error) {
	format, err := FormatOf(file)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	d, err := ParseDescriptor(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return d, nil
}

var descriptorValidator = validator.New(validator.WithRequiredStructEnabled())

// Diagnostic codes of descriptor problems.
const (
	CodeInvalidDescriptor = "invalid-descriptor"
	CodeEmptyType         = "empty-type"
)

// checkDescriptor reports every invalid field at once, and warns about
// types that declare nothing.
func checkDescriptor(d *Descriptor) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	err := descriptorValidator.Struct(d)

	var verrs validator.ValidationErrors

	switch {
	case err == nil:
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			diags.AddCause(CodeInvalidDescriptor, operation.Configf(
				"descriptor", fe.Namespace(), "failed %q validation", fe.Tag()))
		}
	default:
		diags.AddCause(CodeInvalidDescriptor, err)
	}

	for _, td := range d.Types {
		if len(td.Assemble) == 0 && len(td.Disassemble) == 0 {
			diags.AddWarning(CodeEmptyType, "declares no operations", td.Type, "")
		}
	}

	return diags
}

func warnings(d diagnostic.Diagnostics) []string {
	out := make([]string, 0, len(d.Warnings))
	for _, w := range d.Warnings {
		out = append(out, w.String())
	}

	return out
}

// FileResolver serves operations declared in descriptors.
type FileResolver struct {
	types []TypeDescriptor
	diags diagnostic.Diagnostics
}

// NewFileResolver returns a resolver over already parsed descriptors.
func NewFileResolver(descriptors ...*Descriptor) *FileResolver {
	r := &FileResolver{}
	for _, d := range descriptors {
		r.types = append(r.types, d.Types...)
		r.diags.Merge(d.diags)
	}

	return r
}

// Warnings returns the warnings of every loaded descriptor.
func (r *FileResolver) Warnings() []string {
	return warnings(r.diags)
}

// LoadFileResolver loads every file and returns a resolver over all of them.
func LoadFileResolver(files ...string) (*FileResolver, error) {
	descriptors := make([]*Descriptor, 0, len(files))

	for _, f := range files {
		d, err := LoadDescriptor(f)
		if err != nil {
			return nil, err
		}

		descriptors = append(descriptors, d)
	}

	return NewFileResolver(descriptors...), nil
}

// Resolve implements Resolver.
func (r *FileResolver) Resolve(t reflect.Type, scope string) (*Declarations, error) {
	d := &Declarations{}

	for _, td := range r.types {
		if !matchesType(td.Type, t) || !inScope(td.Scope, scope) {
			continue
		}

		for _, ad := range td.Assemble {
			op, err := assembleFromDescriptor(t, ad)
			if err != nil {
				return nil, err
			}

			d.Assembles = append(d.Assembles, op)
		}

		for _, dd := range td.Disassemble {
			d.Disassembles = append(d.Disassembles, DisassembleDecl{
				ID:      dd.ID,
				Key:     dd.Key,
				Handler: dd.Handler,
				Groups:  dd.Groups,
				Sort:    dd.Sort,
				Dynamic: dd.Type == "dynamic",
			})
		}
	}

	return d, nil
}

func assembleFromDescriptor(t reflect.Type, ad AssembleDescriptor) (*operation.AssembleOperation, error) {
	mappings, err := operation.ParseMappings(ad.Props)
	if err != nil {
		return nil, withOwner(err, t, ad.Key)
	}

	op := &operation.AssembleOperation{
		ID:              ad.ID,
		Key:             ad.Key,
		Container:       ad.Container,
		Handler:         ad.Handler,
		Mappings:        mappings,
		MappingStrategy: ad.Strategy,
		Groups:          ad.Groups,
		Sort:            ad.Sort,
	}

	if ad.KeyType != "" {
		op.KeyType, _ = KeyType(ad.KeyType)
	}

	if ad.If != "" {
		if op.Condition, err = operation.ParseCondition(ad.If); err != nil {
			return nil, withOwner(err, t, ad.Key)
		}
	}

	return op, nil
}

// matchesType compares a descriptor type name with t.
func matchesType(name string, t reflect.Type) bool {
	if t.Name() == "" {
		return false
	}

	return name == t.Name() ||
		name == path.Base(t.PkgPath())+"."+t.Name() ||
		name == t.PkgPath()+"."+t.Name()
}
