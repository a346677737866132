package hw

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/arloliu/go-hveprom/line"
)

// PinMap assigns host GPIO names to the socket address bus, data bus and
// the control lines of one family. It is read from YAML:
//
//	address: [GPIO2, GPIO3, ...]   # A0 first, 13 entries
//	data:    [GPIO14, ...]         # D0 first, 8 entries
//	lines:
//	  PON: GPIO5
//	  RD: GPIO6
type PinMap struct {
	Address []string          `yaml:"address"`
	Data    []string          `yaml:"data"`
	Lines   map[string]string `yaml:"lines"`
}

// LoadPinMap decodes and validates a YAML pin map.
func LoadPinMap(r io.Reader) (*PinMap, error) {
	var pm PinMap
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pm); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPinMap, err)
	}
	if len(pm.Address) != AddressBits {
		return nil, fmt.Errorf("%w: %d address pins, want %d", ErrInvalidPinMap, len(pm.Address), AddressBits)
	}
	if len(pm.Data) != DataBits {
		return nil, fmt.Errorf("%w: %d data pins, want %d", ErrInvalidPinMap, len(pm.Data), DataBits)
	}

	return &pm, nil
}

// PinLookup resolves a GPIO name, returning nil when it does not exist.
// gpioreg.ByName has this signature.
type PinLookup func(name string) gpio.PinIO

// Build resolves every pin and returns a board with the family's control lines
// attached. Every line in descs must be present in the map.
func (pm *PinMap) Build(descs []line.Desc, lookup PinLookup, waiter line.Waiter) (*GPIOBoard, error) {
	var address [AddressBits]gpio.PinIO
	var data [DataBits]gpio.PinIO

	for i, name := range pm.Address {
		p := lookup(name)
		if p == nil {
			return nil, fmt.Errorf("%w: A%d=%s", ErrPinNotFound, i, name)
		}
		address[i] = p
	}
	for i, name := range pm.Data {
		p := lookup(name)
		if p == nil {
			return nil, fmt.Errorf("%w: D%d=%s", ErrPinNotFound, i, name)
		}
		data[i] = p
	}

	b := NewGPIOBoard(address, data, waiter)
	b.DriveData(false)
	for _, d := range descs {
		name, ok := pm.Lines[d.Name]
		if !ok {
			return nil, fmt.Errorf("%w: line %s not mapped", ErrInvalidPinMap, d.Name)
		}
		p := lookup(name)
		if p == nil {
			return nil, fmt.Errorf("%w: %s=%s", ErrPinNotFound, d.Name, name)
		}
		if err := b.AttachLine(d, p); err != nil {
			return nil, err
		}
	}
	if err := b.Err(); err != nil {
		return nil, err
	}

	return b, nil
}
