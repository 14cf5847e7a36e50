package operation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the kind of every error caused by invalid or
// unresolvable operation metadata.
var ErrConfiguration = errors.New("configuration error")

// ConfigError describes a configuration problem on a type or one of its properties.
type ConfigError struct {
	Type        string
	Property    string
	Reason      string
	Suggestions []string
}

// Configf builds a ConfigError with a formatted reason.
func Configf(typ, property, format string, args ...any) *ConfigError {
	return &ConfigError{
		Type:     typ,
		Property: property,
		Reason:   fmt.Sprintf(format, args...),
	}
}

// WithSuggestions returns e with the given alternatives attached.
func (e *ConfigError) WithSuggestions(s []string) *ConfigError {
	e.Suggestions = s

	return e
}

func (e *ConfigError) Error() string {
	var b strings.Builder

	b.WriteString(ErrConfiguration.Error())
	b.WriteString(": ")

	switch {
	case e.Type != "" && e.Property != "":
		b.WriteString(e.Type + "." + e.Property + ": ")
	case e.Type != "":
		b.WriteString(e.Type + ": ")
	case e.Property != "":
		b.WriteString(e.Property + ": ")
	}

	b.WriteString(e.Reason)

	if len(e.Suggestions) > 0 {
		b.WriteString(" (did you mean " + strings.Join(e.Suggestions, ", ") + "?)")
	}

	return b.String()
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
