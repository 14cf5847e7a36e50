package container

import (
	"context"
	"errors"
	"reflect"

	"github.com/go-logr/logr"

	"struct-assembler/convert"
)

var (
	ErrEmptyNamespace     = errors.New("container namespace is empty")
	ErrDuplicateNamespace = errors.New("container namespace already registered")
)

// Container looks up values for a batch of keys.
type Container interface {
	// Namespace is the unique name operations refer to the container by.
	Namespace() string
	// Get returns the values for keys, keyed by the keys as requested.
	// Keys without a value are absent. An empty key set yields an empty map.
	Get(ctx context.Context, keys []any) (map[any]any, error)
}

// Provider resolves containers by namespace.
type Provider interface {
	Container(namespace string) (Container, bool)
}

// Lister is implemented by providers that can enumerate their namespaces.
type Lister interface {
	Namespaces() []string
}

// Option configures the constructors of this package.
type Option func(*options)

type options struct {
	log         logr.Logger
	converter   *convert.Converter
	placeholder func(n int) string
}

func newOptions(opts []Option) options {
	o := options{
		log:         logr.Discard(),
		converter:   convert.Default(),
		placeholder: QuestionPlaceholder,
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

// WithConverter sets the converter used to coerce requested keys to a container's key type.
func WithConverter(c *convert.Converter) Option {
	return func(o *options) {
		o.converter = c
	}
}

// isComparable reports whether k can be used as a map key without panicking.
func isComparable(k any) bool {
	return k != nil && reflect.ValueOf(k).Comparable()
}
