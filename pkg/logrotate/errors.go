package logrotate

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind int

const (
	// Required attribute is absent (e.g. `logs`)
	MissingRequiredField ErrorKind = iota + 1

	// Attribute is outside of its enumeration (e.g. `frequency`, `compress`)
	InvalidEnumValue

	// Attribute has a wrong shape (e.g. non-positive `keep`)
	InvalidValue
)

func (k ErrorKind) String() string {
	switch k {
	case MissingRequiredField:
		return "MissingRequiredField"
	case InvalidEnumValue:
		return "InvalidEnumValue"
	case InvalidValue:
		return "InvalidValue"
	default:
		return "Unknown"
	}
}

// ConfigError describes why a rule can't be rendered.
type ConfigError struct {
	Rule  string
	Field string
	Value interface{}
	Kind  ErrorKind
}

func (e *ConfigError) Error() string {
	switch e.Kind {
	case MissingRequiredField:
		return fmt.Sprintf("Must pass %s to rule `%s`", e.Field, e.Rule)
	case InvalidEnumValue:
		return fmt.Sprintf("Invalid %s for rule `%s`: '%v'", e.Field, e.Rule, e.Value)
	default:
		return fmt.Sprintf("Invalid value of %s for rule `%s`: '%v'", e.Field, e.Rule, e.Value)
	}
}

// IsKind reports whether err, or the error it wraps, is a ConfigError of given kind.
func IsKind(err error, kind ErrorKind) bool {
	if err == nil {
		return false
	}

	cerr, ok := errors.Cause(err).(*ConfigError)
	return ok && cerr.Kind == kind
}
