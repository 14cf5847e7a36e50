package parser

import (
	"reflect"
	"strconv"
	"strings"

	"struct-assembler/internal/common"
	"struct-assembler/operation"
)

// Struct tags read by TagResolver.
const (
	TagAssemble    = "assemble"
	TagDisassemble = "disassemble"
)

var keyTypes = map[string]reflect.Type{
	"int":     reflect.TypeOf(int(0)),
	"int8":    reflect.TypeOf(int8(0)),
	"int16":   reflect.TypeOf(int16(0)),
	"int32":   reflect.TypeOf(int32(0)),
	"int64":   reflect.TypeOf(int64(0)),
	"uint":    reflect.TypeOf(uint(0)),
	"uint8":   reflect.TypeOf(uint8(0)),
	"uint16":  reflect.TypeOf(uint16(0)),
	"uint32":  reflect.TypeOf(uint32(0)),
	"uint64":  reflect.TypeOf(uint64(0)),
	"float32": reflect.TypeOf(float32(0)),
	"float64": reflect.TypeOf(float64(0)),
	"string":  reflect.TypeOf(""),
	"bool":    reflect.TypeOf(false),
}

// KeyType returns the key type named by name ("int", "string", ...).
func KeyType(name string) (reflect.Type, bool) {
	t, ok := keyTypes[name]

	return t, ok
}

// TagResolver reads operations from struct tags on a type's own fields.
//
// An assemble tag holds one or more operations separated by ";", each a
// space separated list of options:
//
//	CustomerID int `assemble:"container=customers props=name:CustomerName,:Customer"`
//
// Options:
//   - props (required): mappings "src:ref", ":ref" or "name"
//   - container: namespace; omitted means the target is its own source
//   - handler: one-to-one (default), one-to-many, many-to-many
//   - key: key property, defaults to the tagged field
//   - key-type: int, int64, string, ... coerces keys before lookup
//   - groups, scope: "|" separated lists
//   - sort: integer order
//   - strategy: not-null (default), reference-null
//   - if: condition expression, see operation.ParseCondition
//   - id: identity, defaults to key@container#handler
//
// A disassemble tag marks a field holding nested objects:
//
//	Items []OrderItem `disassemble:""`
//
// Options: type=dynamic, handler, groups, scope, sort, id.
type TagResolver struct{}

// Resolve implements Resolver.
func (TagResolver) Resolve(t reflect.Type, scope string) (*Declarations, error) {
	d := &Declarations{}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			continue
		}

		if tag, ok := f.Tag.Lookup(TagAssemble); ok {
			ops, err := parseAssembleTag(t, f.Name, tag, scope)
			if err != nil {
				return nil, err
			}

			d.Assembles = append(d.Assembles, ops...)
		}

		if tag, ok := f.Tag.Lookup(TagDisassemble); ok {
			decl, in, err := parseDisassembleTag(t, f.Name, tag, scope)
			if err != nil {
				return nil, err
			}

			if in {
				d.Disassembles = append(d.Disassembles, decl)
			}
		}
	}

	return d, nil
}

func parseAssembleTag(t reflect.Type, field, tag, scope string) ([]*operation.AssembleOperation, error) {
	var ops []*operation.AssembleOperation

	for _, spec := range strings.Split(tag, ";") {
		if strings.TrimSpace(spec) == "" {
			continue
		}

		opts, err := tagOptions(t, field, spec)
		if err != nil {
			return nil, err
		}

		if !inScope(splitList(opts["scope"]), scope) {
			continue
		}

		op, err := assembleFromOptions(t, field, opts)
		if err != nil {
			return nil, err
		}

		ops = append(ops, op)
	}

	return ops, nil
}

func assembleFromOptions(t reflect.Type, field string, opts map[string]string) (*operation.AssembleOperation, error) {
	op := &operation.AssembleOperation{
		ID:              opts["id"],
		Key:             field,
		Container:       opts["container"],
		Handler:         opts["handler"],
		MappingStrategy: opts["strategy"],
		Groups:          splitList(opts["groups"]),
	}

	if key, ok := opts["key"]; ok {
		op.Key = key
	}

	if opts["props"] == "" {
		return nil, operation.Configf(t.String(), field, "assemble tag has no props")
	}

	mappings, err := operation.ParseMappings(strings.Split(opts["props"], ","))
	if err != nil {
		return nil, withOwner(err, t, field)
	}

	op.Mappings = mappings

	if op.Sort, err = parseSort(t, field, opts["sort"]); err != nil {
		return nil, err
	}

	if name := opts["key-type"]; name != "" {
		kt, ok := KeyType(name)
		if !ok {
			return nil, operation.Configf(t.String(), field, "unknown key-type %q", name)
		}

		op.KeyType = kt
	}

	if expr := opts["if"]; expr != "" {
		if op.Condition, err = operation.ParseCondition(expr); err != nil {
			return nil, withOwner(err, t, field)
		}
	}

	return op, nil
}

func parseDisassembleTag(t reflect.Type, field, tag, scope string) (DisassembleDecl, bool, error) {
	opts, err := tagOptions(t, field, tag)
	if err != nil {
		return DisassembleDecl{}, false, err
	}

	if !inScope(splitList(opts["scope"]), scope) {
		return DisassembleDecl{}, false, nil
	}

	decl := DisassembleDecl{
		ID:      opts["id"],
		Key:     field,
		Handler: opts["handler"],
		Groups:  splitList(opts["groups"]),
	}

	switch opts["type"] {
	case "", "static":
	case "dynamic":
		decl.Dynamic = true
	default:
		return DisassembleDecl{}, false, operation.Configf(t.String(), field, "unknown disassemble type %q", opts["type"])
	}

	if decl.Sort, err = parseSort(t, field, opts["sort"]); err != nil {
		return DisassembleDecl{}, false, err
	}

	return decl, true, nil
}

var tagKeys = map[string]bool{
	"id": true, "key": true, "key-type": true, "container": true, "handler": true,
	"props": true, "strategy": true, "groups": true, "scope": true, "sort": true,
	"if": true, "type": true,
}

// tagOptions splits "a=1 b=2" into a map. Values end at the next space.
func tagOptions(t reflect.Type, field, spec string) (map[string]string, error) {
	opts := map[string]string{}

	for _, part := range strings.Fields(spec) {
		name, value := common.Unpack2(strings.SplitN(part, "=", 2))
		if !strings.Contains(part, "=") || !tagKeys[name] {
			return nil, operation.Configf(t.String(), field, "invalid tag option %q", part)
		}

		if _, dup := opts[name]; dup {
			return nil, operation.Configf(t.String(), field, "tag option %q given twice", name)
		}

		opts[name] = value
	}

	return opts, nil
}

func parseSort(t reflect.Type, field, s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, operation.Configf(t.String(), field, "invalid sort %q", s)
	}

	return n, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var out []string

	for _, part := range strings.Split(s, "|") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// withOwner fills the type and property of a ConfigError raised without them.
func withOwner(err error, t reflect.Type, field string) error {
	ce, ok := err.(*operation.ConfigError)
	if !ok {
		return err
	}

	if ce.Type == "" {
		ce.Type = t.String()
	}

	if ce.Property == "" {
		ce.Property = field
	}

	return ce
}
