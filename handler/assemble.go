package handler

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"struct-assembler/container"
	"struct-assembler/internal/common"
	"struct-assembler/operation"
	"struct-assembler/property"
)

type cardinality int

const (
	oneToOne cardinality = iota
	oneToMany
	manyToMany
)

func (c cardinality) String() string {
	switch c {
	case oneToOne:
		return operation.HandlerOneToOne
	case oneToMany:
		return operation.HandlerOneToMany
	case manyToMany:
		return operation.HandlerManyToMany
	default:
		return common.UnknownStr
	}
}

// Assemble is the assemble handler of one cardinality.
type Assemble struct {
	cardinality cardinality
	opts        options
}

// NewOneToOne returns the handler writing at most one source per target.
func NewOneToOne(opts ...Option) *Assemble {
	return &Assemble{cardinality: oneToOne, opts: newOptions(opts)}
}

// NewOneToMany returns the handler whose hits are collections of sources.
func NewOneToMany(opts ...Option) *Assemble {
	return &Assemble{cardinality: oneToMany, opts: newOptions(opts)}
}

// NewManyToMany returns the handler splitting key values into atomic keys.
func NewManyToMany(opts ...Option) *Assemble {
	return &Assemble{cardinality: manyToMany, opts: newOptions(opts)}
}

// pending is a target waiting for the container results.
type pending struct {
	op     *operation.AssembleOperation
	target any
	keys   []any
}

// Process implements AssembleHandler. The keys of every execution are looked
// up with a single Get; nothing is fetched when no target has a key.
func (h *Assemble) Process(ctx context.Context, c container.Container, executions []*Execution) error {
	if c == nil {
		return h.introspect(executions)
	}

	var (
		waiting []pending
		keys    []any
		seen    = map[any]struct{}{}
	)

	for _, exec := range executions {
		for _, target := range exec.Targets {
			if common.IsNil(target) {
				continue
			}

			tk, err := h.targetKeys(exec.Operation, target)
			if err != nil {
				return err
			}

			if len(tk) == 0 {
				continue
			}

			for _, k := range tk {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					keys = append(keys, k)
				}
			}

			waiting = append(waiting, pending{op: exec.Operation, target: target, keys: tk})
		}
	}

	if len(keys) == 0 {
		return nil
	}

	start := time.Now()

	results, err := c.Get(ctx, keys)
	if err != nil {
		return fmt.Errorf("container %q: %w", c.Namespace(), err)
	}

	h.opts.log.V(1).Info("container queried", "namespace", c.Namespace(), "handler", h.cardinality.String(),
		"keys", len(keys), "hits", len(results), "elapsed", time.Since(start))

	for _, p := range waiting {
		source, ok := h.associate(p.keys, results)
		if !ok || common.IsBlank(source) {
			continue
		}

		if err := h.apply(p.op, p.target, source); err != nil {
			return err
		}
	}

	return nil
}

func (h *Assemble) introspect(executions []*Execution) error {
	for _, exec := range executions {
		for _, target := range exec.Targets {
			if common.IsNil(target) {
				continue
			}

			if err := h.apply(exec.Operation, target, target); err != nil {
				return err
			}
		}
	}

	return nil
}

// targetKeys reads and normalizes the lookup keys of one target.
// A missing or nil key yields none.
func (h *Assemble) targetKeys(op *operation.AssembleOperation, target any) ([]any, error) {
	raw := target
	if op.Key != "" {
		var err error

		raw, err = h.opts.accessor.Read(target, op.Key)
		if errors.Is(err, property.ErrPropertyNotFound) {
			return nil, nil
		}

		if err != nil {
			return nil, fmt.Errorf("assemble %s: read key: %w", op.Identity(), err)
		}
	}

	var atomic []any

	switch {
	case common.IsNil(raw):
		return nil, nil
	case h.cardinality == manyToMany:
		atomic = h.opts.splitter.Split(raw)
	default:
		atomic = []any{raw}
	}

	keys := make([]any, 0, len(atomic))

	for _, k := range atomic {
		if op.KeyType != nil {
			coerced, err := h.opts.converter.To(k, op.KeyType)
			if err != nil {
				h.opts.log.V(1).Info("key skipped", "operation", op.Identity(), "key", k, "error", err.Error())

				continue
			}

			k = coerced
		}

		if common.IsNil(k) || !reflect.ValueOf(k).Comparable() {
			continue
		}

		keys = append(keys, k)
	}

	return keys, nil
}

// associate picks a target's source from the container results.
func (h *Assemble) associate(keys []any, results map[any]any) (any, bool) {
	if h.cardinality != manyToMany {
		v, ok := results[keys[0]]

		return v, ok
	}

	var merged []any

	for _, k := range keys {
		if v, ok := results[k]; ok && !common.IsNil(v) {
			merged = append(merged, v)
		}
	}

	return merged, len(merged) > 0
}

// apply writes every mapping of op from source to target.
func (h *Assemble) apply(op *operation.AssembleOperation, target, source any) error {
	strategy, ok := h.opts.strategies[op.Strategy()]
	if !ok {
		return operation.Configf(ownerName(op), op.Key, "unknown mapping strategy %q", op.Strategy())
	}

	for _, m := range op.Mappings {
		value, err := h.mapped(m, source)
		if err != nil {
			return fmt.Errorf("assemble %s: %w", op.Identity(), err)
		}

		if common.IsNil(value) {
			continue
		}

		if err := strategy.Write(h.opts.accessor, target, m.Reference, value); err != nil {
			return fmt.Errorf("assemble %s: write %s: %w", op.Identity(), m.Reference, err)
		}
	}

	return nil
}

// mapped reads a mapping's value from source. A collection source maps
// element by element, one entry per element; an element without the
// property contributes nil.
func (h *Assemble) mapped(m operation.PropertyMapping, source any) (any, error) {
	if !m.HasSource() {
		return source, nil
	}

	if !common.IsCollection(source) {
		return h.read(source, m.Source)
	}

	v := reflect.Indirect(reflect.ValueOf(source))
	if v.Len() == 0 {
		return nil, nil
	}

	out := make([]any, v.Len())

	for i := range out {
		x, err := h.read(v.Index(i).Interface(), m.Source)
		if err != nil {
			return nil, err
		}

		out[i] = x
	}

	return out, nil
}

// read returns nil for a property the source does not have.
func (h *Assemble) read(source any, name string) (any, error) {
	if common.IsNil(source) {
		return nil, nil
	}

	x, err := h.opts.accessor.Read(source, name)
	if errors.Is(err, property.ErrPropertyNotFound) {
		return nil, nil
	}

	return x, err
}

func ownerName(op *operation.AssembleOperation) string {
	if op.Owner == nil {
		return ""
	}

	return op.Owner.String()
}
