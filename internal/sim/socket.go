package sim

import (
	"github.com/arloliu/go-hveprom/family"
)

// NewSocket returns a board guarding the mutually exclusive lines of dev's
// family, with a blank dev plugged in. opts are applied after the family
// defaults.
func NewSocket(dev *family.Device, opts ...EPROMOption) (*Board, *EPROM) {
	b := NewBoard()

	var base []EPROMOption
	switch dev.Family {
	case family.Family1702A:
		b.Guard(family.Line1702AReadPower, family.Line1702AProgPower)
		b.Guard(family.Line1702AREN, family.Line1702APGMVDD)
		b.Guard(family.Line1702ACS, family.Line1702APGM)
		base = []EPROMOption{
			WithPulseLine(family.Line1702APGM),
			WithArmed(func(b *Board) bool {
				return b.Asserted(family.Line1702AProgPower, family.Line1702APGMVDD, family.Line1702APEN)
			}),
			WithOutputEnable(func(b *Board) bool {
				return b.Asserted(family.Line1702AReadPower, family.Line1702AREN, family.Line1702ACS)
			}),
		}
	case family.Family270x:
		b.Guard(family.Line270xRD, family.Line270xPE)
		b.Guard(family.Line270xRD, family.Line270xWR)
		base = []EPROMOption{
			WithPulseLine(family.Line270xWR),
			WithArmed(func(b *Board) bool { return b.Asserted(family.Line270xPON, family.Line270xPE) }),
			WithOutputEnable(func(b *Board) bool { return b.Asserted(family.Line270xPON, family.Line270xRD) }),
		}
		if dev.Switch == family.SwitchMCM {
			b.SetInput(family.Line270xDEVSEL, true)
		}
	case family.FamilyMCS48:
		b.Guard(family.LineMCS48TEST0, family.LineMCS48PROG)
		b.Guard(family.LineMCS48TEST0, family.LineMCS48VDD)
		base = []EPROMOption{
			WithPulseLine(family.LineMCS48PROG),
			WithLatch(family.LineMCS48RESET),
			WithArmed(func(b *Board) bool {
				return b.Asserted(family.LineMCS48PON, family.LineMCS48EA, family.LineMCS48VDD) &&
					!b.Get(family.LineMCS48RESET)
			}),
			WithOutputEnable(func(b *Board) bool {
				return b.Asserted(family.LineMCS48PON, family.LineMCS48EA, family.LineMCS48TEST0) &&
					!b.Get(family.LineMCS48RESET)
			}),
		}
	}
	if !dev.Writable {
		base = append(base, AsROM())
	}

	e := NewEPROM(dev.Size, dev.Blank, append(base, opts...)...)
	b.Plug(e)

	return b, e
}
