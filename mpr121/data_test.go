package mpr121

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTouchEdges(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	// nothing is new before the first update
	c.Assert(d.IsNewTouch(3), qt.Equals, false)
	c.Assert(d.IsNewRelease(3), qt.Equals, false)

	bus.regs[TS1] = 1 << 3
	c.Assert(d.UpdateTouchData(), qt.IsNil)
	c.Assert(d.Touched(3), qt.Equals, true)
	c.Assert(d.TouchCount(), qt.Equals, 1)
	c.Assert(d.IsNewTouch(3), qt.Equals, true)
	c.Assert(d.IsNewRelease(3), qt.Equals, false)

	// still touched: no longer new
	c.Assert(d.UpdateTouchData(), qt.IsNil)
	c.Assert(d.IsNewTouch(3), qt.Equals, false)

	bus.regs[TS1] = 0
	c.Assert(d.UpdateTouchData(), qt.IsNil)
	c.Assert(d.Touched(3), qt.Equals, false)
	c.Assert(d.IsNewTouch(3), qt.Equals, false)
	c.Assert(d.IsNewRelease(3), qt.Equals, true)
	c.Assert(d.Previous(), qt.Equals, Report(1<<3))
}

func TestTouchStatusHighByte(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	// ELE9, ELEPROX and the overcurrent flag
	bus.regs[TS1] = 0x01
	bus.regs[TS2] = 0x80 | 0x10 | 0x02
	c.Assert(d.UpdateTouchData(), qt.IsNil)
	c.Assert(d.Status(), qt.Equals, Report(0x1201))
	c.Assert(d.Touched(0), qt.Equals, true)
	c.Assert(d.Touched(9), qt.Equals, true)
	c.Assert(d.Touched(12), qt.Equals, true)
	c.Assert(d.TouchCount(), qt.Equals, 3)
	c.Assert(d.Faults().Overcurrent, qt.Equals, true)
	c.Assert(d.Fault(), qt.Equals, Overcurrent)

	bus.regs[TS2] = 0
	c.Assert(d.UpdateTouchData(), qt.IsNil)
	c.Assert(d.Faults().Overcurrent, qt.Equals, false)
}

func TestReport(t *testing.T) {
	c := qt.New(t)
	r := Report(0b1_0000_0000_0101)
	c.Assert(r.Touched(0), qt.Equals, true)
	c.Assert(r.Touched(1), qt.Equals, false)
	c.Assert(r.Touched(2), qt.Equals, true)
	c.Assert(r.Touched(12), qt.Equals, true)
	c.Assert(r.Touched(13), qt.Equals, false)
	c.Assert(r.Count(), qt.Equals, 3)
}

func TestBaselineData(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	for e := 0; e < ElectrodeCount; e++ {
		bus.regs[E0BV+e] = uint8(0x40 + e)
	}
	c.Assert(d.UpdateBaselineData(), qt.IsNil)
	for e := uint8(0); e < ElectrodeCount; e++ {
		v, err := d.Baseline(e)
		c.Assert(err, qt.IsNil)
		c.Assert(v, qt.Equals, uint16(0x40+e)<<2)
	}

	// a short read must leave the previous values alone
	bus.regs[E0BV] = 0xFF
	bus.short = 5
	c.Assert(d.UpdateBaselineData(), qt.Equals, errShortRead)
	v, err := d.Baseline(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0x40<<2))
}

func TestFilteredData(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	bus.regs[E0FDL+2*2] = 0x34
	bus.regs[E0FDH+2*2] = 0x02
	// reserved high bits are dropped
	bus.regs[E0FDL+2*12] = 0xFF
	bus.regs[E0FDH+2*12] = 0xFF
	c.Assert(d.UpdateFilteredData(), qt.IsNil)

	v, err := d.Filtered(2)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0x234))
	v, err = d.Filtered(12)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0x3FF))
	v, err = d.Filtered(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0))

	bus.regs[E0FDL+2*2] = 0x00
	bus.short = 2*ElectrodeCount - 1
	c.Assert(d.UpdateFilteredData(), qt.Equals, errShortRead)
	v, _ = d.Filtered(2)
	c.Assert(v, qt.Equals, uint16(0x234))
}

func TestUpdateAll(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	bus.regs[TS1] = 0x02
	bus.regs[E0BV+1] = 0x10
	bus.regs[E0FDL+2] = 0x50
	c.Assert(d.UpdateAll(), qt.IsNil)
	c.Assert(d.Touched(1), qt.Equals, true)
	b, _ := d.Baseline(1)
	c.Assert(b, qt.Equals, uint16(0x40))
	f, _ := d.Filtered(1)
	c.Assert(f, qt.Equals, uint16(0x50))

	bus.fail = true
	c.Assert(d.UpdateAll(), qt.Equals, errNACK)
}

func TestTouchStatusChanged(t *testing.T) {
	c := qt.New(t)
	d, _ := newTestDevice(c)
	c.Assert(d.TouchStatusChanged(), qt.Equals, false)

	pin := &fakePin{level: true}
	c.Assert(d.SetInterruptPin(pin), qt.IsNil)
	c.Assert(d.TouchStatusChanged(), qt.Equals, false)

	pin.level = false
	c.Assert(d.TouchStatusChanged(), qt.Equals, true)

	// the baseline read clears the IRQ line on the chip, but the change is remembered
	c.Assert(d.UpdateBaselineData(), qt.IsNil)
	pin.level = true
	c.Assert(d.TouchStatusChanged(), qt.Equals, true)

	c.Assert(d.UpdateTouchData(), qt.IsNil)
	c.Assert(d.TouchStatusChanged(), qt.Equals, false)

	// so does reading the fault registers
	pin.level = false
	d.Fault()
	pin.level = true
	c.Assert(d.TouchStatusChanged(), qt.Equals, true)
}

func TestInterruptPinFromSettings(t *testing.T) {
	c := qt.New(t)
	bus := newFakeBus()
	d := New(bus)
	pin := &fakePin{level: false}
	s := DefaultSettings()
	s.Interrupt = pin
	c.Assert(d.Configure(Config{Settings: &s}), qt.IsNil)
	c.Assert(d.TouchStatusChanged(), qt.Equals, true)
}
