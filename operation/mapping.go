package operation

import (
	"strings"

	"struct-assembler/internal/common"
)

// PropertyMapping copies a value from a source object into a property of the target.
// An empty Source means the whole source object is copied.
type PropertyMapping struct {
	Source    string
	Reference string
}

// HasSource reports whether a source property is named.
func (m PropertyMapping) HasSource() bool {
	return m.Source != ""
}

func (m PropertyMapping) String() string {
	return m.Source + ":" + m.Reference
}

// ParseMapping parses "src:ref", ":ref" (whole source) or "ref" (same name on both sides).
func ParseMapping(s string) (PropertyMapping, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PropertyMapping{}, Configf("", "", "empty property mapping")
	}

	if !strings.Contains(s, ":") {
		return PropertyMapping{Source: s, Reference: s}, nil
	}

	src, ref := common.Unpack2(strings.SplitN(s, ":", 2))
	src, ref = strings.TrimSpace(src), strings.TrimSpace(ref)

	if ref == "" {
		return PropertyMapping{}, Configf("", "", "property mapping %q has no reference property", s)
	}

	return PropertyMapping{Source: src, Reference: ref}, nil
}

// ParseMappings parses every element with ParseMapping.
func ParseMappings(specs []string) ([]PropertyMapping, error) {
	out := make([]PropertyMapping, 0, len(specs))

	for _, s := range specs {
		m, err := ParseMapping(s)
		if err != nil {
			return nil, err
		}

		out = append(out, m)
	}

	return out, nil
}
