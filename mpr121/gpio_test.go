package mpr121

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSetPinMode(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	c.Assert(d.SetPinMode(5, PinOutputHighSide), qt.IsNil)
	c.Assert(bus.regs[EN], qt.Equals, uint8(0x02))
	c.Assert(bus.regs[DIR], qt.Equals, uint8(0x02))
	c.Assert(bus.regs[CTL0], qt.Equals, uint8(0x02))
	c.Assert(bus.regs[CTL1], qt.Equals, uint8(0x02))

	c.Assert(d.SetPinMode(11, PinOutputLowSide), qt.IsNil)
	c.Assert(bus.regs[EN], qt.Equals, uint8(0x82))
	c.Assert(bus.regs[DIR], qt.Equals, uint8(0x82))
	c.Assert(bus.regs[CTL0], qt.Equals, uint8(0x82))
	c.Assert(bus.regs[CTL1], qt.Equals, uint8(0x02))

	c.Assert(d.SetPinMode(5, PinInputPulldown), qt.IsNil)
	c.Assert(bus.regs[DIR], qt.Equals, uint8(0x80))
	c.Assert(bus.regs[CTL0], qt.Equals, uint8(0x82))
	c.Assert(bus.regs[CTL1], qt.Equals, uint8(0x00))

	c.Assert(d.SetPinMode(5, PinInputPullup), qt.IsNil)
	c.Assert(bus.regs[CTL1], qt.Equals, uint8(0x02))

	c.Assert(d.SetPinMode(4, PinOutput), qt.IsNil)
	c.Assert(bus.regs[EN], qt.Equals, uint8(0x83))
	c.Assert(bus.regs[DIR], qt.Equals, uint8(0x81))
	c.Assert(bus.regs[CTL0]&0x01, qt.Equals, uint8(0))

	c.Assert(d.SetPinMode(4, PinInput), qt.IsNil)
	c.Assert(bus.regs[DIR], qt.Equals, uint8(0x80))

	c.Assert(d.SetPinMode(4, PinMode(42)), qt.Equals, ErrInvalidPinMode)

	// GPIO registers are writable while running
	c.Assert(bus.writesTo(ECR), qt.HasLen, 0)
	c.Assert(bus.ignored, qt.HasLen, 0)
}

func TestDigitalIO(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	c.Assert(d.DigitalWrite(4, true), qt.IsNil)
	c.Assert(d.DigitalWrite(11, true), qt.IsNil)
	c.Assert(bus.regs[DAT], qt.Equals, uint8(0x81))

	high, err := d.DigitalRead(4)
	c.Assert(err, qt.IsNil)
	c.Assert(high, qt.Equals, true)

	c.Assert(d.DigitalToggle(4), qt.IsNil)
	high, err = d.DigitalRead(4)
	c.Assert(err, qt.IsNil)
	c.Assert(high, qt.Equals, false)

	c.Assert(d.DigitalWrite(11, false), qt.IsNil)
	c.Assert(bus.regs[DAT], qt.Equals, uint8(0x00))
	c.Assert(bus.writes, qt.DeepEquals, []regWrite{
		{SET, 0x01},
		{SET, 0x80},
		{TOG, 0x01},
		{CLR, 0x80},
	})
}

func TestAnalogWrite(t *testing.T) {
	c := qt.New(t)
	d, bus := newTestDevice(c)

	c.Assert(d.AnalogWrite(6, 0xA0), qt.IsNil)
	c.Assert(bus.regs[PWM1], qt.Equals, uint8(0x0A))
	c.Assert(bus.regs[DAT], qt.Equals, uint8(0x04))

	c.Assert(d.AnalogWrite(7, 0xFF), qt.IsNil)
	c.Assert(bus.regs[PWM1], qt.Equals, uint8(0xFA))
	c.Assert(bus.regs[DAT], qt.Equals, uint8(0x0C))

	// below one duty step turns the output off
	c.Assert(d.AnalogWrite(6, 0x0F), qt.IsNil)
	c.Assert(bus.regs[PWM1], qt.Equals, uint8(0xF0))
	c.Assert(bus.regs[DAT], qt.Equals, uint8(0x08))

	c.Assert(d.AnalogWrite(11, 0x30), qt.IsNil)
	c.Assert(bus.regs[PWM3], qt.Equals, uint8(0x30))
}
