package sim

import (
	"fmt"
	"regexp"
)

// A Named object is an object that has a name.
type Named interface {
	// Name returns the name of the object.
	Name() string
}

// NamedBase is a base implementation of Named.
type NamedBase struct {
	name string
}

// Name returns the name of the object.
func (b NamedBase) Name() string {
	return b.name
}

// MakeNamedBase creates a new NamedBase.
func MakeNamedBase(name string) NamedBase {
	return NamedBase{name: name}
}

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)*$`)

// ValidateName checks that a module or field name follows the naming
// convention. Names are lower snake case, start with a letter, and contain no
// empty segments. For example, "heat_pump" is valid but "Heat_Pump",
// "heat__pump", and "_pump" are not.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return &ConfigurationError{
			Op:     "validate name",
			Reason: fmt.Sprintf("name %q must be lower snake case", name),
		}
	}

	return nil
}

// QualifiedName joins a module name and one of its field names into the
// facility-wide field name.
func QualifiedName(module, field string) string {
	return module + "_" + field
}
