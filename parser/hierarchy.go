package parser

import (
	"reflect"

	"struct-assembler/internal/common"
)

// hierarchy returns the embedded struct types of t, most general first,
// followed by t itself. Each type appears once.
func hierarchy(t reflect.Type) []reflect.Type {
	var out []reflect.Type

	visited := map[reflect.Type]bool{}

	var walk func(t reflect.Type)
	walk = func(t reflect.Type) {
		if visited[t] {
			return
		}

		visited[t] = true

		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.Anonymous {
				continue
			}

			if et := common.Indirect(f.Type); et.Kind() == reflect.Struct {
				walk(et)
			}
		}

		out = append(out, t)
	}

	walk(t)

	return out
}
