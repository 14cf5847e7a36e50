package common

// IsSingle returns true if the slice has exactly one element.
func IsSingle[S ~[]E, E any](s S) bool {
	return len(s) == 1
}
// Unpack2 returns the first two elements of the slice, zero values where missing.
func Unpack2[S ~[]E, E any](s S) (first, second E) {
	switch len(s) {
	case 0:
		return first, second
	case 1:
		return s[0], second
	default:
		return s[0], s[1]
	}
}
