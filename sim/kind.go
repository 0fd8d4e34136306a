package sim

import "fmt"

// Kind identifies a commodity that is routed independently between modules.
type Kind int

// The resource kinds known to the kernel.
const (
	KindElectric Kind = iota
	KindThermal
	KindHotWater

	numKinds
)

var kindNames = [numKinds]string{
	KindElectric: "electric",
	KindThermal:  "thermal",
	KindHotWater: "hot_water",
}

// String returns the snake-case name of the kind.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}

	return kindNames[k]
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// ParseKind converts a kind name back into a Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}

	return 0, &ConfigurationError{
		Op:     "parse kind",
		Reason: fmt.Sprintf("unknown resource kind %q", name),
	}
}

// AllKinds returns every kind in the default routing order. Electricity is
// routed first since converters such as heat pumps can only release thermal
// energy after they have absorbed electricity in the same tick.
func AllKinds() []Kind {
	return []Kind{KindElectric, KindThermal, KindHotWater}
}
