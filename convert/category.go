package convert

// CategoryEnum is a set of coercion families a Converter may apply.
type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: true, false, 1, 0 representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) <-> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string <-> named string type
	CategorySafeArray                             // slice -> array: slice fits into the array
	CategoryUnsafeArray                           // slice -> array: slice is cut to the array length

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected
)

// Has reports whether every category in other is part of c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

// Classify returns the category a scalar coercion from one kind to another
// belongs to. CategoryNone with ok=true means the coercion is always allowed;
// ok=false means no coercion exists.
func Classify(from, to KindEnum) (CategoryEnum, bool) {
	switch {
	case from == to:
		return CategoryNone, true
	case from.IsNumber() && to.IsNumber():
		if isSafeNumber(from, to) {
			return CategorySafeNumber, true
		}

		return CategoryUnsafeNumber, true
	case from.IsNumber() && to == KindString, from == KindString && to.IsNumber():
		return CategoryTextNumber, true
	case from.IsInteger() && to == KindBool, from == KindBool && to.IsInteger():
		return CategoryNumericBool, true
	case from == KindString && to == KindBool, from == KindBool && to == KindString:
		return CategoryTextualBool, true
	case from == KindString && to == KindTime, from == KindTime && to == KindString:
		return CategoryDatetime, true
	case from.IsInteger() && to == KindTime, from == KindTime && to.IsInteger():
		return CategoryTimestamp, true
	case from == KindString && to == KindDuration, from == KindDuration && to == KindString:
		return CategoryDuration, true
	case from.IsInteger() && to == KindDuration, from == KindDuration && to.IsInteger():
		return CategoryNanoseconds, true
	case from.IsFloat() && to == KindDuration, from == KindDuration && to.IsFloat():
		return CategorySeconds, true
	default:
		return CategoryNone, false
	}
}

// isSafeNumber reports whether every value of from is representable in to.
func isSafeNumber(from, to KindEnum) bool {
	switch {
	case from.IsSigned() && to.IsSigned(), from.IsUnsigned() && to.IsUnsigned():
		return minBits(to) >= maxBits(from)
	case from.IsUnsigned() && to.IsSigned():
		return minBits(to) > maxBits(from)
	case from.IsInteger() && to == KindFloat64:
		return maxBits(from) <= 32
	case from.IsInteger() && to == KindFloat32:
		return maxBits(from) <= 16
	case from == KindFloat32 && to == KindFloat64:
		return true
	default:
		return false
	}
}

// int and uint are at least 32 bits wide on every platform
func minBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 32
	}

	return k.Bits()
}

func maxBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 64
	}

	return k.Bits()
}
