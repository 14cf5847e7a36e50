package executor

import (
	"reflect"

	"struct-assembler/internal/common"
)

// flatten turns the targets argument into a list of objects. A slice or
// array is expanded one level; struct elements are taken by address.
func flatten(targets any) []any {
	if common.IsNil(targets) {
		return nil
	}

	v := reflect.ValueOf(targets)
	if v.Kind() == reflect.Ptr {
		if k := v.Elem().Kind(); k == reflect.Slice || k == reflect.Array {
			v = v.Elem()
		}
	}

	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return []any{targets}
	}

	out := make([]any, 0, v.Len())

	for i := 0; i < v.Len(); i++ {
		x := v.Index(i)

		var obj any
		if x.Kind() == reflect.Struct && x.CanAddr() {
			obj = x.Addr().Interface()
		} else {
			obj = x.Interface()
		}

		if !common.IsNil(obj) {
			out = append(out, obj)
		}
	}

	return out
}

type batch struct {
	typ     reflect.Type
	targets []any
}

// groupByType splits objects by runtime type, pointers and values alike,
// in first-seen order.
func groupByType(objects []any) []*batch {
	var out []*batch

	index := map[reflect.Type]int{}

	for _, obj := range objects {
		if common.IsNil(obj) {
			continue
		}

		t := common.Indirect(reflect.TypeOf(obj))

		i, ok := index[t]
		if !ok {
			i = len(out)
			index[t] = i
			out = append(out, &batch{typ: t})
		}

		out[i].targets = append(out[i].targets, obj)
	}

	return out
}
