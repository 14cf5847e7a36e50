package executor

import (
	"struct-assembler/container"
	"struct-assembler/internal/diagnostic"
	"struct-assembler/internal/match"
	"struct-assembler/operation"
)

// Diagnostic codes of preflight problems.
const (
	CodeMissingContainer = "missing-container"
	CodeUnknownHandler   = "unknown-handler"
)

// preflight reports, for every operation the call keeps in the statically
// reachable model graph, a container or handler that is not available.
// Each missing namespace is reported once.
func (r *run) preflight(model *operation.BeanOperations, visited map[*operation.BeanOperations]bool, diags *diagnostic.Diagnostics) {
	if model == nil || visited[model] {
		return
	}

	visited[model] = true
	owner := model.Type.String()

	for _, op := range model.Assembles() {
		if !r.call.groups(op.Groups) {
			continue
		}

		if _, ok := r.e.assemblers[op.Handler]; !ok {
			diags.AddCause(CodeUnknownHandler,
				operation.Configf(owner, op.Key, "unknown assemble handler %q", op.Handler))
		}

		if op.Container == "" || r.reported(diags, op.Container) {
			continue
		}

		if _, ok := r.provider.Container(op.Container); !ok {
			err := operation.Configf(owner, op.Key, "container %q is not registered", op.Container).
				WithSuggestions(r.namespacesLike(op.Container))

			diags.Errors = append(diags.Errors, diagnostic.Diagnostic{
				Severity: diagnostic.SeverityError,
				Code:     CodeMissingContainer,
				Message:  err.Error(),
				Type:     owner,
				Property: op.Container,
				Cause:    err,
			})
		}
	}

	for _, op := range model.Disassembles() {
		if !r.call.groups(op.Groups) {
			continue
		}

		if _, ok := r.e.disassemblers[op.Handler]; !ok {
			diags.AddCause(CodeUnknownHandler,
				operation.Configf(owner, op.Key, "unknown disassemble handler %q", op.Handler))
		}

		r.preflight(op.Static(), visited, diags)
	}
}

func (r *run) reported(diags *diagnostic.Diagnostics, namespace string) bool {
	for _, d := range diags.Errors {
		if d.Code == CodeMissingContainer && d.Property == namespace {
			return true
		}
	}

	return false
}

func (r *run) namespacesLike(namespace string) []string {
	l, ok := r.provider.(container.Lister)
	if !ok {
		return nil
	}

	return match.Suggest(namespace, l.Namespaces(), 3)
}
