package convert

import (
	"math"
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

// KindEnum classifies the scalar types the converter knows how to coerce.
type KindEnum int

const (
	_ KindEnum = iota // zero value marks a type that is not a known scalar

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over any number, boolean or string

	// KindTotal is the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

// Bits returns the width of a numeric kind.
func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds have a meaningful width, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}

		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64:
		return 64
	}
}

var (
	typeTime     = reflect.TypeOf(time.Time{})
	typeDuration = reflect.TypeOf(time.Duration(0))
)

var basicTypes = map[reflect.Kind]reflect.Type{
	reflect.Int:     reflect.TypeOf(int(0)),
	reflect.Int8:    reflect.TypeOf(int8(0)),
	reflect.Int16:   reflect.TypeOf(int16(0)),
	reflect.Int32:   reflect.TypeOf(int32(0)),
	reflect.Int64:   reflect.TypeOf(int64(0)),
	reflect.Uint:    reflect.TypeOf(uint(0)),
	reflect.Uint8:   reflect.TypeOf(uint8(0)),
	reflect.Uint16:  reflect.TypeOf(uint16(0)),
	reflect.Uint32:  reflect.TypeOf(uint32(0)),
	reflect.Uint64:  reflect.TypeOf(uint64(0)),
	reflect.Float32: reflect.TypeOf(float32(0)),
	reflect.Float64: reflect.TypeOf(float64(0)),
	reflect.Bool:    reflect.TypeOf(false),
	reflect.String:  reflect.TypeOf(""),
}

var basicKinds = map[reflect.Type]KindEnum{
	basicTypes[reflect.Int]:     KindInt,
	basicTypes[reflect.Int8]:    KindInt8,
	basicTypes[reflect.Int16]:   KindInt16,
	basicTypes[reflect.Int32]:   KindInt32,
	basicTypes[reflect.Int64]:   KindInt64,
	basicTypes[reflect.Uint]:    KindUint,
	basicTypes[reflect.Uint8]:   KindUint8,
	basicTypes[reflect.Uint16]:  KindUint16,
	basicTypes[reflect.Uint32]:  KindUint32,
	basicTypes[reflect.Uint64]:  KindUint64,
	basicTypes[reflect.Float32]: KindFloat32,
	basicTypes[reflect.Float64]: KindFloat64,
	basicTypes[reflect.Bool]:    KindBool,
	basicTypes[reflect.String]:  KindString,
	typeTime:                    KindTime,
	typeDuration:                KindDuration,
}

// FromReflectType classifies rtype; named scalar types report KindPrimitiveEnum.
func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	if k, ok := basicKinds[rtype]; ok {
		return k
	}

	if _, ok := basicTypes[rtype.Kind()]; ok {
		return KindPrimitiveEnum
	}

	return 0
}

// BaseKind classifies rtype by its underlying scalar kind, so a named
// type over int64 reports KindInt64.
func BaseKind(rtype reflect.Type) KindEnum {
	k := FromReflectType(rtype)
	if k != KindPrimitiveEnum {
		return k
	}

	return basicKinds[basicTypes[rtype.Kind()]]
}
