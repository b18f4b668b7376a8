package mpr121

import (
	"errors"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*fakeBus)(nil)

var (
	errNACK      = errors.New("i2c: nack")
	errShortRead = errors.New("i2c: short read")
)

// fakeBus emulates the register file of one MPR121, including the chip ignoring writes to
// configuration registers while electrodes are enabled.
type fakeBus struct {
	addr uint16
	regs [256]uint8

	fail        bool  // fail every transaction
	short       int   // if non-zero, reads longer than this return only this many bytes
	afe2Reset   uint8 // AFE2 after a soft reset
	overcurrent bool  // TS2 bit 7 after a soft reset

	txCount int
	writes  []regWrite
	ignored []regWrite
}

type regWrite struct {
	Reg, Val uint8
}

func newFakeBus() *fakeBus {
	f := &fakeBus{addr: DefaultAddress, afe2Reset: 0x24}
	f.softReset()
	return f
}

func (f *fakeBus) softReset() {
	f.regs = [256]uint8{}
	f.regs[AFE1] = 0x10
	f.regs[AFE2] = f.afe2Reset
	if f.overcurrent {
		f.regs[TS2] = 0x80
	}
}

func (f *fakeBus) running() bool {
	return f.regs[ECR]&0x3F != 0
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.txCount++
	if f.fail || addr != f.addr {
		return errNACK
	}
	if len(w) == 0 {
		return errors.New("fake: missing register address")
	}
	reg := w[0]
	if len(r) > 0 {
		if f.short > 0 && len(r) > f.short {
			copy(r, f.regs[reg:int(reg)+f.short])
			return errShortRead
		}
		copy(r, f.regs[reg:])
		return nil
	}
	for i, v := range w[1:] {
		f.write(reg+uint8(i), v)
	}
	return nil
}

func (f *fakeBus) write(reg, val uint8) {
	w := regWrite{reg, val}
	if reg < CTL0 && reg != ECR && f.running() {
		f.ignored = append(f.ignored, w)
		return
	}
	f.writes = append(f.writes, w)
	switch reg {
	case SRST:
		if val == 0x63 {
			f.softReset()
		}
	case SET:
		f.regs[DAT] |= val
	case CLR:
		f.regs[DAT] &^= val
	case TOG:
		f.regs[DAT] ^= val
	default:
		f.regs[reg] = val
	}
}

// writesTo returns the values written to reg, in order.
func (f *fakeBus) writesTo(reg uint8) []uint8 {
	var vals []uint8
	for _, w := range f.writes {
		if w.Reg == reg {
			vals = append(vals, w.Val)
		}
	}
	return vals
}

func (f *fakeBus) clearLog() {
	f.txCount = 0
	f.writes = nil
	f.ignored = nil
}

// speedBus is a fakeBus whose clock can be changed, like machine.I2C.
type speedBus struct {
	*fakeBus
	baud uint32
}

func (b *speedBus) SetBaudRate(br uint32) error {
	b.baud = br
	return nil
}

type fakePin struct {
	level bool
}

func (p *fakePin) Get() bool {
	return p.level
}

type fakeLogger struct {
	lines []string
}

func (l *fakeLogger) Println(s string) error {
	l.lines = append(l.lines, s)
	return nil
}
