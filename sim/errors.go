package sim

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a facility that cannot be built or used as
// configured. It is never transient.
type ConfigurationError struct {
	Op     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Op == "" {
		return "configuration error: " + e.Reason
	}

	return fmt.Sprintf("configuration error: %s: %s", e.Op, e.Reason)
}

// NotResetError is returned when a facility is stepped before it is reset.
type NotResetError struct{}

func (e *NotResetError) Error() string {
	return "facility must be reset before it can be stepped"
}

// Role tells whether a capability releases or absorbs a resource.
type Role int

// Capability roles.
const (
	RoleProducer Role = iota
	RoleConsumer
)

func (r Role) String() string {
	if r == RoleProducer {
		return "producer"
	}

	return "consumer"
}

// CapabilityMismatchError is returned when a module is asked to produce or
// consume a kind it has no capability for. It always indicates a wiring bug.
type CapabilityMismatchError struct {
	Module string
	Kind   Kind
	Role   Role
}

func (e *CapabilityMismatchError) Error() string {
	return fmt.Sprintf("module %s is not a %s %s",
		e.Module, e.Kind, e.Role)
}

// ErrActionLength is returned when a flat action vector does not match the
// length of the action schema.
var ErrActionLength = errors.New("action vector length does not match schema")

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
