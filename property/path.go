package property

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Path is a parsed property path such as "Customer.Address.City" or "Items[].ProductID".
type Path struct {
	Segments []Segment
}

// Segment is one element of a Path. Each marks a collection whose
// elements the rest of the path applies to.
type Segment struct {
	Name string
	Each bool
}

// IsPath reports whether name is a path rather than a single property name.
func IsPath(name string) bool {
	return strings.ContainsAny(name, ".[")
}

// ParsePath parses a property path.
// Supports: "Field", "Nested.Field", "Items[]", "Items[].ProductID".
func ParsePath(path string) (Path, error) {
	if path == "" {
		return Path{}, errors.New("empty path")
	}

	var segments []Segment

	for part := range strings.SplitSeq(path, ".") {
		if part == "" {
			return Path{}, fmt.Errorf("invalid path %q: empty segment", path)
		}

		each := false
		name := part

		if strings.HasSuffix(part, "[]") {
			each = true
			name = strings.TrimSuffix(part, "[]")

			if name == "" {
				return Path{}, fmt.Errorf("invalid path %q: collection without property name", path)
			}
		}

		if !isValidName(name) {
			return Path{}, fmt.Errorf("invalid path %q: invalid property name %q", path, name)
		}

		segments = append(segments, Segment{Name: name, Each: each})
	}

	return Path{Segments: segments}, nil
}

// Fans reports whether any segment expands a collection.
func (p Path) Fans() bool {
	for _, s := range p.Segments {
		if s.Each {
			return true
		}
	}

	return false
}

func (p Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.Name
		if s.Each {
			parts[i] += "[]"
		}
	}

	return strings.Join(parts, ".")
}

// isValidName accepts Go identifiers and the usual tag spellings (snake and kebab case).
func isValidName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-'):
		default:
			return false
		}
	}

	return s != ""
}
