package parser

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/singleflight"

	"struct-assembler/internal/common"
	"struct-assembler/internal/match"
	"struct-assembler/operation"
	"struct-assembler/property"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogr sets the logger.
func WithLogr(log logr.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// WithResolvers replaces the default resolvers (declarer, then tags).
func WithResolvers(rs ...Resolver) Option {
	return func(p *Parser) {
		p.resolvers = rs
	}
}

// WithInspector sets how declared properties are checked.
func WithInspector(i property.Inspector) Option {
	return func(p *Parser) {
		p.inspector = i
	}
}

// WithPropertyValidation toggles the check that key, reference and nested
// properties exist on the owning type.
func WithPropertyValidation(enabled bool) Option {
	return func(p *Parser) {
		p.validateProperties = enabled
	}
}

type modelKey struct {
	typ   reflect.Type
	scope string
}

// Parser resolves and caches operation models. It is safe for concurrent use.
type Parser struct {
	resolvers          []Resolver
	inspector          property.Inspector
	validateProperties bool
	log                logr.Logger

	models sync.Map // modelKey -> *operation.BeanOperations
	flight singleflight.Group
	mu     sync.Mutex
}

// New returns a Parser reading Declarer implementations and struct tags.
func New(opts ...Option) *Parser {
	p := &Parser{
		resolvers:          []Resolver{DeclarerResolver{}, TagResolver{}},
		inspector:          property.Default(),
		validateProperties: true,
		log:                logr.Discard(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse returns the unscoped model of t. Pointer types resolve to their element type.
func (p *Parser) Parse(t reflect.Type) (*operation.BeanOperations, error) {
	return p.ParseScoped(t, "")
}

// ParseValue returns the unscoped model of v's type.
func (p *Parser) ParseValue(v any) (*operation.BeanOperations, error) {
	if v == nil {
		return nil, operation.Configf("", "", "cannot parse the model of nil")
	}

	return p.Parse(reflect.TypeOf(v))
}

// ParseScoped returns the model of t under scope. Models of nested types
// reached through disassemble operations share the scope.
func (p *Parser) ParseScoped(t reflect.Type, scope string) (*operation.BeanOperations, error) {
	if t == nil {
		return nil, operation.Configf("", "", "cannot parse the model of a nil type")
	}

	key := modelKey{typ: common.Indirect(t), scope: scope}

	if m, ok := p.models.Load(key); ok {
		return m.(*operation.BeanOperations), nil
	}

	_, err, _ := p.flight.Do(flightName(key), func() (any, error) {
		return p.resolve(key)
	})
	if err != nil {
		return nil, err
	}

	if m, ok := p.models.Load(key); ok {
		return m.(*operation.BeanOperations), nil
	}

	// two distinct types rendered to the same flight name
	return p.resolve(key)
}

// Clear drops every cached model.
func (p *Parser) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.models.Range(func(k, _ any) bool {
		p.models.Delete(k)

		return true
	})
}

func flightName(key modelKey) string {
	return fmt.Sprintf("%s|%s|%s", key.typ.PkgPath(), key.typ.String(), key.scope)
}

// resolve builds the model of key and every model it reaches, and publishes
// them only if all of them resolved.
func (p *Parser) resolve(key modelKey) (*operation.BeanOperations, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.models.Load(key); ok {
		return m.(*operation.BeanOperations), nil
	}

	start := time.Now()
	r := &resolution{parser: p, building: map[modelKey]*operation.BeanOperations{}}

	m, err := r.model(key)
	if err != nil {
		p.log.V(1).Info("parse failed", "type", key.typ.String(), "scope", key.scope, "error", err.Error())

		return nil, err
	}

	for _, built := range r.built {
		built.Activate()
		p.models.Store(modelKey{typ: built.Type, scope: built.Scope}, built)
	}

	p.log.V(1).Info("parsed", "type", key.typ.String(), "scope", key.scope,
		"models", len(r.built), "elapsed", time.Since(start))

	return m, nil
}

// resolution is one top-level resolution. building holds the models whose
// parse is in progress; asking for one of them again returns it as a
// forward reference.
type resolution struct {
	parser   *Parser
	building map[modelKey]*operation.BeanOperations
	built    []*operation.BeanOperations
}

func (r *resolution) model(key modelKey) (*operation.BeanOperations, error) {
	if m, ok := r.building[key]; ok {
		return m, nil
	}

	if m, ok := r.parser.models.Load(key); ok {
		return m.(*operation.BeanOperations), nil
	}

	m := operation.NewBeanOperations(key.typ, key.scope)

	if key.typ.Kind() != reflect.Struct {
		r.built = append(r.built, m)

		return m, nil
	}

	r.building[key] = m

	for _, level := range hierarchy(key.typ) {
		for _, res := range r.parser.resolvers {
			d, err := res.Resolve(level, key.scope)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", key.typ, err)
			}

			if d.IsEmpty() {
				continue
			}

			for _, declared := range d.Assembles {
				op, err := r.assemble(key.typ, declared)
				if err != nil {
					return nil, err
				}

				m.PutAssemble(op)
			}

			for _, decl := range d.Disassembles {
				op, err := r.disassemble(key, decl)
				if err != nil {
					return nil, err
				}

				m.PutDisassemble(op)
			}
		}
	}

	m.Sort()
	delete(r.building, key)
	r.built = append(r.built, m)

	return m, nil
}

func (r *resolution) assemble(owner reflect.Type, declared *operation.AssembleOperation) (*operation.AssembleOperation, error) {
	op := *declared
	op.Owner = owner

	if op.Handler == "" {
		op.Handler = operation.HandlerOneToOne
	}

	op.ID = op.Identity()

	if err := op.Validate(); err != nil {
		return nil, err
	}

	if !r.parser.validateProperties {
		return &op, nil
	}

	if op.Key != "" {
		if err := r.checkProperty(owner, op.Key, "key"); err != nil {
			return nil, err
		}
	}

	for _, m := range op.Mappings {
		if err := r.checkProperty(owner, m.Reference, "reference"); err != nil {
			return nil, err
		}
	}

	return &op, nil
}

func (r *resolution) disassemble(key modelKey, decl DisassembleDecl) (*operation.DisassembleOperation, error) {
	owner := key.typ

	if decl.Key == "" {
		return nil, operation.Configf(owner.String(), "", "disassemble declaration has no key")
	}

	if r.parser.validateProperties {
		if err := r.checkProperty(owner, decl.Key, "nested"); err != nil {
			return nil, err
		}
	}

	op := &operation.DisassembleOperation{
		ID:      decl.ID,
		Key:     decl.Key,
		Owner:   owner,
		Handler: decl.Handler,
		Groups:  decl.Groups,
		Sort:    decl.Sort,
	}

	if op.Handler == "" {
		op.Handler = operation.HandlerReflect
	}

	nested := common.Indirect(decl.Type)
	if nested == nil && !decl.Dynamic {
		nested = common.Indirect(common.LeafType(r.parser.propertyType(owner, decl.Key)))
	}

	if decl.Dynamic || nested == nil || nested.Kind() != reflect.Struct {
		op.SetResolver(scoped{parser: r.parser, scope: key.scope})

		return op, nil
	}

	m, err := r.model(modelKey{typ: nested, scope: key.scope})
	if err != nil {
		return nil, err
	}

	op.SetStatic(m)
	op.NestedType = nested

	return op, nil
}

func (r *resolution) checkProperty(owner reflect.Type, name, role string) error {
	if r.parser.inspector.Has(owner, name) {
		return nil
	}

	return operation.Configf(owner.String(), name, "unknown %s property", role).
		WithSuggestions(match.Suggest(name, r.parser.inspector.Names(owner), 3))
}

// propertyType returns the declared type of a property, or nil when unknown.
func (p *Parser) propertyType(owner reflect.Type, name string) reflect.Type {
	if typer, ok := p.inspector.(property.Typer); ok {
		t, _ := typer.PropertyType(owner, name)

		return t
	}

	if f, ok := owner.FieldByName(name); ok {
		return f.Type
	}

	return nil
}

// scoped resolves dynamic nested models under a fixed scope.
type scoped struct {
	parser *Parser
	scope  string
}

func (s scoped) Parse(t reflect.Type) (*operation.BeanOperations, error) {
	return s.parser.ParseScoped(t, s.scope)
}
