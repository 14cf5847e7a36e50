package executor

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Policy -linecomment -output=policy_string.go

// Policy decides how the assemble operations of one level are run.
type Policy int

const (
	// PolicyDisordered batches operations sharing a container and handler
	// into one container call; their relative order is unspecified.
	PolicyDisordered Policy = iota // disordered
	// PolicyOrdered runs operations one at a time by ascending sort value,
	// so an operation may read what an earlier one wrote.
	PolicyOrdered // ordered
)

// ParsePolicy parses "disordered" or "ordered". An empty string is PolicyDisordered.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", PolicyDisordered.String():
		return PolicyDisordered, nil
	case PolicyOrdered.String():
		return PolicyOrdered, nil
	default:
		return 0, fmt.Errorf("unknown execution policy %q", s)
	}
}
