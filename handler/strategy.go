package handler

import (
	"reflect"

	"struct-assembler/internal/common"
	"struct-assembler/property"
)

// Strategy writes one mapped value to a target. Values reaching a strategy are never nil.
type Strategy interface {
	Write(a property.Accessor, target any, reference string, value any) error
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(a property.Accessor, target any, reference string, value any) error

// Write calls f.
func (f StrategyFunc) Write(a property.Accessor, target any, reference string, value any) error {
	return f(a, target, reference, value)
}

// NotNull always writes.
type NotNull struct{}

// Write implements Strategy.
func (NotNull) Write(a property.Accessor, target any, reference string, value any) error {
	return a.Write(target, reference, value)
}

// ReferenceNull writes only while the reference property is nil or zero.
type ReferenceNull struct{}

// Write implements Strategy.
func (ReferenceNull) Write(a property.Accessor, target any, reference string, value any) error {
	current, err := a.Read(target, reference)
	if err != nil {
		return err
	}

	if !common.IsNil(current) && !reflect.ValueOf(current).IsZero() {
		return nil
	}

	return a.Write(target, reference, value)
}
