package executor

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/go-logr/logr"

	"struct-assembler/container"
	"struct-assembler/handler"
	"struct-assembler/internal/common"
	"struct-assembler/internal/diagnostic"
	"struct-assembler/operation"
	"struct-assembler/property"
)

// ModelParser resolves operation models.
type ModelParser interface {
	ParseScoped(t reflect.Type, scope string) (*operation.BeanOperations, error)
}

// Accessor reads and writes properties for the handlers and evaluates conditions.
type Accessor interface {
	property.Accessor
	property.ValueReader
}

// Executor runs operation models. It holds no per-call state and is safe
// for concurrent use when its containers are.
type Executor struct {
	parser     ModelParser
	containers container.Provider
	accessor   Accessor
	policy     Policy
	batchSize  int
	log        logr.Logger

	handlerOpts         []handler.Option
	customAssemblers    map[string]handler.AssembleHandler
	customDisassemblers map[string]handler.DisassembleHandler
	assemblers          map[string]handler.AssembleHandler
	disassemblers       map[string]handler.DisassembleHandler
}

// New returns an Executor resolving models with p and containers with
// containers. A nil provider has no containers.
func New(p ModelParser, containers container.Provider, opts ...Option) *Executor {
	e := &Executor{
		parser:              p,
		containers:          containers,
		accessor:            property.Default(),
		log:                 logr.Discard(),
		customAssemblers:    map[string]handler.AssembleHandler{},
		customDisassemblers: map[string]handler.DisassembleHandler{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.containers == nil {
		e.containers = container.NewManager()
	}

	hopts := append([]handler.Option{handler.WithAccessor(e.accessor), handler.WithLogr(e.log)}, e.handlerOpts...)

	e.assemblers = handler.AssembleHandlers(hopts...)
	maps.Copy(e.assemblers, e.customAssemblers)

	e.disassemblers = handler.DisassembleHandlers(e.accessor)
	maps.Copy(e.disassemblers, e.customDisassemblers)

	return e
}

// Execute runs the models of the targets' runtime types. targets is one
// object, or a slice or array of objects possibly of different types; nil
// entries are skipped. Struct elements of a slice are processed in place.
//
// Nothing is written if any statically reachable model needs a container
// or handler that is not available; all of them are reported in one error.
// Models of dynamic nested properties are resolved from the runtime types
// of the nested objects and checked only when reached, so a missing
// container there fails after the enclosing levels have been written.
func (e *Executor) Execute(ctx context.Context, targets any, opts ...CallOption) error {
	r := e.newRun(ctx, opts)

	batches := groupByType(flatten(targets))
	if len(batches) == 0 {
		return nil
	}

	models := make([]*operation.BeanOperations, len(batches))

	var diags diagnostic.Diagnostics

	visited := map[*operation.BeanOperations]bool{}

	for i, b := range batches {
		m, err := e.parser.ParseScoped(b.typ, r.call.scope)
		if err != nil {
			return err
		}

		models[i] = m
		r.preflight(m, visited, &diags)
	}

	if err := diags.Err(); err != nil {
		return err
	}

	for i, b := range batches {
		if err := r.level(models[i], b.targets); err != nil {
			return err
		}
	}

	return nil
}

// ExecuteOperations runs model over targets regardless of their types.
func (e *Executor) ExecuteOperations(ctx context.Context, targets any, model *operation.BeanOperations, opts ...CallOption) error {
	r := e.newRun(ctx, opts)

	var diags diagnostic.Diagnostics

	r.preflight(model, map[*operation.BeanOperations]bool{}, &diags)

	if err := diags.Err(); err != nil {
		return err
	}

	return r.level(model, flatten(targets))
}

// run is the state of one Execute call.
type run struct {
	e        *Executor
	ctx      context.Context
	call     call
	provider container.Provider
}

func (e *Executor) newRun(ctx context.Context, opts []CallOption) *run {
	c := call{groups: operation.Always(), policy: e.policy}
	for _, opt := range opts {
		opt(&c)
	}

	provider := e.containers
	if len(c.overrides) > 0 {
		provider = container.NewOverlay(e.containers, c.overrides...)
	}

	return &run{e: e, ctx: ctx, call: c, provider: provider}
}

// level runs model over one homogeneous batch and recurses into the nested objects.
func (r *run) level(model *operation.BeanOperations, targets []any) error {
	targets = compact(targets)
	if len(targets) == 0 || model.IsEmpty() || !model.Active() {
		return nil
	}

	start := time.Now()

	if err := r.assemble(model, targets); err != nil {
		return err
	}

	if err := r.disassemble(model, targets); err != nil {
		return err
	}

	r.e.log.V(1).Info("model executed", "model", model.String(), "targets", len(targets),
		"policy", r.call.policy.String(), "elapsed", time.Since(start))

	return nil
}

type groupKey struct {
	namespace string
	handler   string
}

func (r *run) assemble(model *operation.BeanOperations, targets []any) error {
	var executions []*handler.Execution

	for _, op := range model.Assembles() {
		if !r.call.groups(op.Groups) {
			continue
		}

		ts, err := r.applicable(op, targets)
		if err != nil {
			return err
		}

		if len(ts) > 0 {
			executions = append(executions, &handler.Execution{Operation: op, Targets: ts})
		}
	}

	if r.call.policy == PolicyOrdered {
		for _, exec := range executions {
			if err := r.process(exec.Operation.Container, exec.Operation.Handler, []*handler.Execution{exec}); err != nil {
				return err
			}
		}

		return nil
	}

	var (
		order  []groupKey
		groups = map[groupKey][]*handler.Execution{}
	)

	for _, exec := range executions {
		k := groupKey{namespace: exec.Operation.Container, handler: exec.Operation.Handler}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}

		groups[k] = append(groups[k], exec)
	}

	for _, k := range order {
		if err := r.process(k.namespace, k.handler, groups[k]); err != nil {
			return err
		}
	}

	return nil
}

// applicable drops the targets op's condition rejects.
func (r *run) applicable(op *operation.AssembleOperation, targets []any) ([]any, error) {
	if op.Condition == nil {
		return targets, nil
	}

	out := make([]any, 0, len(targets))

	for _, t := range targets {
		ok, err := op.Condition.Test(t, r.e.accessor)
		if err != nil {
			return nil, fmt.Errorf("condition of %s: %w", op.Identity(), err)
		}

		if ok {
			out = append(out, t)
		}
	}

	return out, nil
}

func (r *run) process(namespace, name string, executions []*handler.Execution) error {
	h, ok := r.e.assemblers[name]
	if !ok {
		return operation.Configf("", "", "unknown assemble handler %q", name)
	}

	var c container.Container

	if namespace != "" {
		if c, ok = r.provider.Container(namespace); !ok {
			return operation.Configf("", "", "container %q is not registered", namespace)
		}
	}

	for _, chunk := range chunks(executions, r.e.batchSize) {
		if err := h.Process(r.ctx, c, chunk); err != nil {
			return err
		}
	}

	return nil
}

func (r *run) disassemble(model *operation.BeanOperations, targets []any) error {
	for _, op := range model.Disassembles() {
		if !r.call.groups(op.Groups) {
			continue
		}

		h, ok := r.e.disassemblers[op.Handler]
		if !ok {
			return operation.Configf(model.Type.String(), op.Key, "unknown disassemble handler %q", op.Handler)
		}

		nested, err := h.Process(op, targets)
		if err != nil {
			return err
		}

		if len(nested) == 0 {
			continue
		}

		if static := op.Static(); static != nil {
			if err := r.level(static, nested); err != nil {
				return err
			}

			continue
		}

		for _, b := range groupByType(nested) {
			m, err := op.Resolve(b.targets[0])
			if err != nil {
				return err
			}

			var diags diagnostic.Diagnostics

			r.preflight(m, map[*operation.BeanOperations]bool{}, &diags)

			if err := diags.Err(); err != nil {
				return err
			}

			if err := r.level(m, b.targets); err != nil {
				return err
			}
		}
	}

	return nil
}

// chunks splits every execution's targets into slices of at most size,
// pairing the i-th slices of all executions. size <= 0 keeps one chunk.
func chunks(executions []*handler.Execution, size int) [][]*handler.Execution {
	if size <= 0 {
		return [][]*handler.Execution{executions}
	}

	var out [][]*handler.Execution

	for _, exec := range executions {
		for i := 0; i*size < len(exec.Targets); i++ {
			end := min((i+1)*size, len(exec.Targets))

			if i == len(out) {
				out = append(out, nil)
			}

			out[i] = append(out[i], &handler.Execution{Operation: exec.Operation, Targets: exec.Targets[i*size : end]})
		}
	}

	return out
}

func compact(targets []any) []any {
	for _, t := range targets {
		if common.IsNil(t) {
			out := make([]any, 0, len(targets))
			for _, t := range targets {
				if !common.IsNil(t) {
					out = append(out, t)
				}
			}

			return out
		}
	}

	return targets
}
