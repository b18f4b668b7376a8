// Package mpr121test provides an emulated MPR121 for testing code built on the mpr121
// package.
package mpr121test // import "github.com/ajanata/touch/mpr121/mpr121test"

import (
	"errors"

	"tinygo.org/x/drivers"

	"github.com/ajanata/touch/mpr121"
)

var _ drivers.I2C = (*Bus)(nil)

// ErrNACK is returned by a failing Bus.
var ErrNACK = errors.New("mpr121test: nack")

// Bus is a register file answering at one I2C address. It implements the soft reset
// command and the GPIO set, clear and toggle registers.
type Bus struct {
	Addr uint16
	Regs [256]uint8
	// Fail makes every transaction fail with ErrNACK.
	Fail bool
	// Writes logs every register write in order.
	Writes []Write
}

type Write struct {
	Reg, Val uint8
}

// NewBus returns a Bus at mpr121.DefaultAddress holding the power-on register values.
func NewBus() *Bus {
	b := &Bus{Addr: mpr121.DefaultAddress}
	b.reset()
	return b
}

func (b *Bus) reset() {
	b.Regs = [256]uint8{}
	b.Regs[mpr121.AFE1] = 0x10
	b.Regs[mpr121.AFE2] = 0x24
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if b.Fail || addr != b.Addr || len(w) == 0 {
		return ErrNACK
	}
	reg := w[0]
	if len(r) > 0 {
		copy(r, b.Regs[reg:])
		return nil
	}
	for i, v := range w[1:] {
		b.write(reg+uint8(i), v)
	}
	return nil
}

func (b *Bus) write(reg, val uint8) {
	b.Writes = append(b.Writes, Write{reg, val})
	switch reg {
	case mpr121.SRST:
		if val == 0x63 {
			b.reset()
		}
	case mpr121.SET:
		b.Regs[mpr121.DAT] |= val
	case mpr121.CLR:
		b.Regs[mpr121.DAT] &^= val
	case mpr121.TOG:
		b.Regs[mpr121.DAT] ^= val
	default:
		b.Regs[reg] = val
	}
}

// SetTouched sets the touch status registers to the bitmap r. TS1 holds ELE0..ELE7 and
// bits 4:0 of TS2 hold ELE8..ELEPROX; bits of r above ELEPROX are dropped. The
// overcurrent flag in TS2 bit 7 is left as it was.
func (b *Bus) SetTouched(r mpr121.Report) {
	b.Regs[mpr121.TS1] = uint8(r)
	b.Regs[mpr121.TS2] = b.Regs[mpr121.TS2]&0x80 | uint8(r>>8)&0x1F
}

// SetFiltered sets the 10-bit filtered data of an electrode.
func (b *Bus) SetFiltered(electrode uint8, v uint16) {
	b.Regs[mpr121.E0FDL+2*electrode] = uint8(v)
	b.Regs[mpr121.E0FDH+2*electrode] = uint8(v>>8) & 0x03
}

// SetBaseline sets the baseline of an electrode. Only the upper 8 of the 10 bits are kept.
func (b *Bus) SetBaseline(electrode uint8, v uint16) {
	b.Regs[mpr121.E0BV+electrode] = uint8(v >> 2)
}

// WritesTo returns the values written to reg, oldest first.
func (b *Bus) WritesTo(reg uint8) []uint8 {
	var vals []uint8
	for _, w := range b.Writes {
		if w.Reg == reg {
			vals = append(vals, w.Val)
		}
	}
	return vals
}

// Pin is an interrupt line. The MPR121 IRQ output is active low.
type Pin struct {
	Level bool
}

func (p *Pin) Get() bool {
	return p.Level
}

// NewDevice returns a device configured with default settings on a fresh Bus.
func NewDevice() (*mpr121.Device, *Bus, error) {
	bus := NewBus()
	dev := mpr121.New(bus)
	err := dev.Configure(mpr121.Config{})
	bus.Writes = nil
	return dev, bus, err
}
