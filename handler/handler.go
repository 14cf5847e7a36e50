package handler

import (
	"context"

	"github.com/go-logr/logr"

	"struct-assembler/container"
	"struct-assembler/convert"
	"struct-assembler/operation"
	"struct-assembler/property"
)

// Execution pairs an assemble operation with the targets it applies to.
// All targets share one runtime type.
type Execution struct {
	Operation *operation.AssembleOperation
	Targets   []any
}

// AssembleHandler runs executions whose operations share one container.
// A nil container means every target is its own source.
type AssembleHandler interface {
	Process(ctx context.Context, c container.Container, executions []*Execution) error
}

// DisassembleHandler returns the nested objects op discovers on targets,
// in discovery order.
type DisassembleHandler interface {
	Process(op *operation.DisassembleOperation, targets []any) ([]any, error)
}

// Option configures the handlers of this package.
type Option func(*options)

type options struct {
	log        logr.Logger
	accessor   property.Accessor
	converter  *convert.Converter
	splitter   KeySplitter
	strategies map[string]Strategy
}

func newOptions(opts []Option) options {
	o := options{
		log:       logr.Discard(),
		accessor:  property.Default(),
		converter: convert.Default(),
		splitter:  DefaultSplitter{Separator: DefaultSeparator},
		strategies: map[string]Strategy{
			operation.StrategyNotNull:       NotNull{},
			operation.StrategyReferenceNull: ReferenceNull{},
		},
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithLogr sets the logger.
func WithLogr(log logr.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithAccessor sets how keys and source properties are read and targets written.
func WithAccessor(a property.Accessor) Option {
	return func(o *options) {
		o.accessor = a
	}
}

// WithConverter sets the converter keys are coerced with.
func WithConverter(c *convert.Converter) Option {
	return func(o *options) {
		o.converter = c
	}
}

// WithSplitter sets how many-to-many key values are split.
func WithSplitter(s KeySplitter) Option {
	return func(o *options) {
		o.splitter = s
	}
}

// WithStrategy registers a property-mapping strategy under name.
func WithStrategy(name string, s Strategy) Option {
	return func(o *options) {
		o.strategies[name] = s
	}
}

// AssembleHandlers returns the three cardinality handlers by name.
func AssembleHandlers(opts ...Option) map[string]AssembleHandler {
	return map[string]AssembleHandler{
		operation.HandlerOneToOne:   NewOneToOne(opts...),
		operation.HandlerOneToMany:  NewOneToMany(opts...),
		operation.HandlerManyToMany: NewManyToMany(opts...),
	}
}

// DisassembleHandlers returns the reflective disassemble handler by name.
func DisassembleHandlers(r property.ValueReader) map[string]DisassembleHandler {
	return map[string]DisassembleHandler{
		operation.HandlerReflect: NewReflect(r),
	}
}
