package handler

import (
	"reflect"
	"strings"

	"struct-assembler/internal/common"
)

// DefaultSeparator splits many-to-many key strings.
const DefaultSeparator = ","

// KeySplitter turns a many-to-many key value into atomic keys.
type KeySplitter interface {
	Split(raw any) []any
}

// DefaultSplitter passes collection elements through and splits strings on
// Separator. Keys are trimmed and de-duplicated in first-seen order; empty
// ones are dropped. Any other scalar yields no keys.
type DefaultSplitter struct {
	Separator string
}

// Split implements KeySplitter.
func (s DefaultSplitter) Split(raw any) []any {
	if common.IsNil(raw) {
		return nil
	}

	v := reflect.Indirect(reflect.ValueOf(raw))

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		keys := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			keys = append(keys, v.Index(i).Interface())
		}

		return dedupe(keys)
	case reflect.String:
		sep := s.Separator
		if sep == "" {
			sep = DefaultSeparator
		}

		var keys []any

		for _, part := range strings.Split(v.String(), sep) {
			if part = strings.TrimSpace(part); part != "" {
				keys = append(keys, part)
			}
		}

		return dedupe(keys)
	default:
		return nil
	}
}

// dedupe drops nil, repeated and non-comparable keys, keeping first-seen order.
func dedupe(keys []any) []any {
	seen := make(map[any]struct{}, len(keys))
	out := keys[:0]

	for _, k := range keys {
		if common.IsNil(k) || !reflect.ValueOf(k).Comparable() {
			continue
		}

		if _, ok := seen[k]; ok {
			continue
		}

		seen[k] = struct{}{}
		out = append(out, k)
	}

	return out
}
