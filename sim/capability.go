package sim

// ElectricProducer can release electricity.
type ElectricProducer interface {
	// ProduceElectric releases the given fraction of this tick's producible
	// electricity and returns the released quantity.
	ProduceElectric(fraction float64) float64
}

// ElectricConsumer can absorb electricity.
type ElectricConsumer interface {
	ConsumeElectric(quantity float64)
}

// ThermalProducer can release thermal energy.
type ThermalProducer interface {
	ProduceThermal(fraction float64) float64
}

// ThermalConsumer can absorb thermal energy.
type ThermalConsumer interface {
	ConsumeThermal(quantity float64)
}

// HotWaterProducer can release hot water.
type HotWaterProducer interface {
	ProduceHotWater(fraction float64) float64
}

// HotWaterConsumer can absorb hot water.
type HotWaterConsumer interface {
	ConsumeHotWater(quantity float64)
}

// CanProduce reports whether m holds the producer capability for kind.
func CanProduce(m any, kind Kind) bool {
	switch kind {
	case KindElectric:
		_, ok := m.(ElectricProducer)
		return ok
	case KindThermal:
		_, ok := m.(ThermalProducer)
		return ok
	case KindHotWater:
		_, ok := m.(HotWaterProducer)
		return ok
	default:
		return false
	}
}

// CanConsume reports whether m holds the consumer capability for kind.
func CanConsume(m any, kind Kind) bool {
	switch kind {
	case KindElectric:
		_, ok := m.(ElectricConsumer)
		return ok
	case KindThermal:
		_, ok := m.(ThermalConsumer)
		return ok
	case KindHotWater:
		_, ok := m.(HotWaterConsumer)
		return ok
	default:
		return false
	}
}

// Produce asks m to release the given fraction of its producible quantity of
// kind.
func Produce(m Module, kind Kind, fraction float64) (float64, error) {
	switch kind {
	case KindElectric:
		if p, ok := m.(ElectricProducer); ok {
			return p.ProduceElectric(fraction), nil
		}
	case KindThermal:
		if p, ok := m.(ThermalProducer); ok {
			return p.ProduceThermal(fraction), nil
		}
	case KindHotWater:
		if p, ok := m.(HotWaterProducer); ok {
			return p.ProduceHotWater(fraction), nil
		}
	}

	return 0, &CapabilityMismatchError{
		Module: m.Name(),
		Kind:   kind,
		Role:   RoleProducer,
	}
}

// Consume hands quantity of kind over to m.
func Consume(m Module, kind Kind, quantity float64) error {
	switch kind {
	case KindElectric:
		if c, ok := m.(ElectricConsumer); ok {
			c.ConsumeElectric(quantity)
			return nil
		}
	case KindThermal:
		if c, ok := m.(ThermalConsumer); ok {
			c.ConsumeThermal(quantity)
			return nil
		}
	case KindHotWater:
		if c, ok := m.(HotWaterConsumer); ok {
			c.ConsumeHotWater(quantity)
			return nil
		}
	}

	return &CapabilityMismatchError{
		Module: m.Name(),
		Kind:   kind,
		Role:   RoleConsumer,
	}
}

// Release computes how much a producer gives away when asked for fraction of
// capacity, given that released has already left the producer during this
// tick. The result never exceeds what remains.
func Release(fraction, capacity, released float64) float64 {
	fraction = ClampFraction(fraction)

	remaining := capacity - released
	if remaining <= 0 || capacity <= 0 {
		return 0
	}

	return min(fraction*capacity, remaining)
}
