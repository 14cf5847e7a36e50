package executor

import (
	"github.com/go-logr/logr"

	"struct-assembler/container"
	"struct-assembler/handler"
	"struct-assembler/operation"
)

// Option configures an Executor.
type Option func(*Executor)

// WithLogr sets the logger.
func WithLogr(log logr.Logger) Option {
	return func(e *Executor) {
		e.log = log
	}
}

// WithPolicy sets the default policy of every call.
func WithPolicy(p Policy) Option {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithBatchSize caps the number of targets passed to one handler call.
// Zero or less means unlimited.
func WithBatchSize(n int) Option {
	return func(e *Executor) {
		e.batchSize = n
	}
}

// WithAccessor sets the accessor used by the default handlers and by conditions.
func WithAccessor(a Accessor) Option {
	return func(e *Executor) {
		e.accessor = a
	}
}

// WithHandlerOptions passes options to the default assemble handlers.
func WithHandlerOptions(opts ...handler.Option) Option {
	return func(e *Executor) {
		e.handlerOpts = append(e.handlerOpts, opts...)
	}
}

// WithAssembleHandler registers h under name, replacing a default one.
func WithAssembleHandler(name string, h handler.AssembleHandler) Option {
	return func(e *Executor) {
		e.customAssemblers[name] = h
	}
}

// WithDisassembleHandler registers h under name, replacing a default one.
func WithDisassembleHandler(name string, h handler.DisassembleHandler) Option {
	return func(e *Executor) {
		e.customDisassemblers[name] = h
	}
}

// CallOption configures one Execute call.
type CallOption func(*call)

type call struct {
	groups    operation.GroupFilter
	scope     string
	policy    Policy
	overrides []container.Container
}

// WithGroups keeps operations sharing a group with groups. No groups keeps everything.
func WithGroups(groups ...string) CallOption {
	return func(c *call) {
		c.groups = operation.AnyOf(groups...)
	}
}

// WithGroupFilter keeps operations accepted by f.
func WithGroupFilter(f operation.GroupFilter) CallOption {
	return func(c *call) {
		c.groups = f
	}
}

// WithScope resolves models under scope.
func WithScope(scope string) CallOption {
	return func(c *call) {
		c.scope = scope
	}
}

// WithContainers adds containers visible to this call only. They shadow
// registered containers of the same namespace.
func WithContainers(cs ...container.Container) CallOption {
	return func(c *call) {
		c.overrides = append(c.overrides, cs...)
	}
}

// WithCallPolicy overrides the executor's policy for this call.
func WithCallPolicy(p Policy) CallOption {
	return func(c *call) {
		c.policy = p
	}
}
