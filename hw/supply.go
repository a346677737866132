package hw

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// Default divider on the 12 V sense input.
const (
	DefaultSupplyR1 = 10 * physic.KiloOhm
	DefaultSupplyR2 = 2200 * physic.Ohm
)

// ADC is the part of analog.PinADC the supply reader needs.
type ADC interface {
	Read() (analog.Sample, error)
}

// SupplyReader measures the programming supply.
type SupplyReader interface {
	ReadSupply() (physic.ElectricPotential, error)
}

// DividerSupply reads the supply through a resistor divider: R1 from the
// supply to the ADC input, R2 from the input to ground.
type DividerSupply struct {
	ADC ADC
	R1  physic.ElectricResistance
	R2  physic.ElectricResistance
}

var _ SupplyReader = (*DividerSupply)(nil)

// NewDividerSupply uses the default 10k/2k2 divider.
func NewDividerSupply(adc ADC) *DividerSupply {
	return &DividerSupply{ADC: adc, R1: DefaultSupplyR1, R2: DefaultSupplyR2}
}

// ReadSupply returns the supply voltage at the top of the divider.
func (s *DividerSupply) ReadSupply() (physic.ElectricPotential, error) {
	if s.R2 <= 0 {
		return 0, fmt.Errorf("hw: divider R2 must be positive, got %s", s.R2)
	}
	sample, err := s.ADC.Read()
	if err != nil {
		return 0, fmt.Errorf("hw: read supply: %w", err)
	}

	// Scale in microvolts and milliohms to stay inside int64.
	uv := int64(sample.V / physic.MicroVolt)
	r1 := int64(s.R1 / physic.MilliOhm)
	r2 := int64(s.R2 / physic.MilliOhm)

	return physic.ElectricPotential(uv*(r1+r2)/r2) * physic.MicroVolt, nil
}

// Centivolts converts v to the 1/100 V unit used on the wire, clamped to 16 bits.
func Centivolts(v physic.ElectricPotential) uint16 {
	cv := int64(v / (10 * physic.MilliVolt))
	switch {
	case cv < 0:
		return 0
	case cv > 0xFFFF:
		return 0xFFFF
	default:
		return uint16(cv)
	}
}
