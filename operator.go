package assembler

import (
	"context"
	"sort"
	"sync"

	"struct-assembler/container"
	"struct-assembler/executor"
	"struct-assembler/internal/match"
	"struct-assembler/operation"
)

// Invocation fixes how a named fill runs.
type Invocation struct {
	// Groups keeps operations sharing one of them; empty keeps all.
	Groups []string
	// Scope selects scoped models.
	Scope string
	// Containers are visible to this invocation only.
	Containers []container.Container
	// Policy, when set, overrides the configured policy.
	Policy *executor.Policy
}

func (inv Invocation) options() []executor.CallOption {
	opts := []executor.CallOption{
		executor.WithGroups(inv.Groups...),
		executor.WithScope(inv.Scope),
		executor.WithContainers(inv.Containers...),
	}

	if inv.Policy != nil {
		opts = append(opts, executor.WithCallPolicy(*inv.Policy))
	}

	return opts
}

// Operator is a dispatch table of named invocations over one Assembler.
type Operator struct {
	assembler *Assembler

	mu          sync.RWMutex
	invocations map[string]Invocation
}

// NewOperator returns an empty dispatch table over a.
func NewOperator(a *Assembler) *Operator {
	return &Operator{assembler: a, invocations: map[string]Invocation{}}
}

// Define registers inv under name. Names are unique.
func (o *Operator) Define(name string, inv Invocation) error {
	if name == "" {
		return operation.Configf("operator", "", "invocation name is empty")
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.invocations[name]; ok {
		return operation.Configf("operator", name, "invocation already defined")
	}

	o.invocations[name] = inv

	return nil
}

// Invoke fills targets with the invocation registered under name.
// Extra options apply after the invocation's own.
func (o *Operator) Invoke(ctx context.Context, name string, targets any, extra ...executor.CallOption) error {
	o.mu.RLock()
	inv, ok := o.invocations[name]
	o.mu.RUnlock()

	if !ok {
		return operation.Configf("operator", name, "unknown invocation").
			WithSuggestions(match.Suggest(name, o.Names(), 3))
	}

	return o.assembler.Fill(ctx, targets, append(inv.options(), extra...)...)
}

// Names returns the defined invocation names in sorted order.
func (o *Operator) Names() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	names := make([]string, 0, len(o.invocations))
	for name := range o.invocations {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
