package mpr121

// PinMode is the GPIO/LED driver configuration of an electrode pin. Only ELE4..ELE11 can
// be used as GPIO, and only when they are not being scanned, see SetDigitalPinCount.
type PinMode uint8

const (
	PinInput          PinMode = iota // high impedance input
	PinInputPulldown                 // input with internal pull-down
	PinInputPullup                   // input with internal pull-up
	PinOutput                        // CMOS output
	PinOutputHighSide                // open drain output, high side only (LED driver)
	PinOutputLowSide                 // open drain output, low side only
)

// SetPinMode configures the GPIO function of an electrode.
func (d *Device) SetPinMode(electrode uint8, mode PinMode) error {
	mask, err := d.gpioMask(electrode)
	if err != nil {
		return err
	}

	var dir, ctl0, ctl1 bool
	switch mode {
	case PinInput:
	case PinInputPulldown:
		ctl0 = true
	case PinInputPullup:
		ctl0, ctl1 = true, true
	case PinOutput:
		dir = true
	case PinOutputHighSide:
		dir, ctl0, ctl1 = true, true, true
	case PinOutputLowSide:
		dir, ctl0 = true, true
	default:
		return ErrInvalidPinMode
	}

	if err := d.updateBits(EN, mask, true); err != nil {
		return err
	}
	if err := d.updateBits(DIR, mask, dir); err != nil {
		return err
	}
	if err := d.updateBits(CTL0, mask, ctl0); err != nil {
		return err
	}
	return d.updateBits(CTL1, mask, ctl1)
}

// DigitalWrite drives a GPIO electrode high or low.
func (d *Device) DigitalWrite(electrode uint8, high bool) error {
	mask, err := d.gpioMask(electrode)
	if err != nil {
		return err
	}
	if high {
		return d.writeRegister(SET, mask)
	}
	return d.writeRegister(CLR, mask)
}

// DigitalToggle inverts the output level of a GPIO electrode.
func (d *Device) DigitalToggle(electrode uint8) error {
	mask, err := d.gpioMask(electrode)
	if err != nil {
		return err
	}
	return d.writeRegister(TOG, mask)
}

// DigitalRead reads the level of a GPIO electrode.
func (d *Device) DigitalRead(electrode uint8) (bool, error) {
	mask, err := d.gpioMask(electrode)
	if err != nil {
		return false, err
	}
	dat, err := d.readRegister(DAT)
	if err != nil {
		return false, err
	}
	return dat&mask != 0, nil
}

// AnalogWrite sets the PWM duty cycle of a GPIO electrode. The chip has 16 duty levels, so
// only the upper four bits of value are used; a value below 16 turns the output off.
//
// LED outputs 5 and 6 (ELE9 and ELE10) are known to misbehave with PWM on some parts.
func (d *Device) AnalogWrite(electrode uint8, value uint8) error {
	mask, err := d.gpioMask(electrode)
	if err != nil {
		return err
	}

	duty := value >> 4
	if duty > 0 {
		err = d.writeRegister(SET, mask)
	} else {
		err = d.writeRegister(CLR, mask)
	}
	if err != nil {
		return err
	}

	// two outputs per register, the even one in the low nibble
	n := electrode - firstGPIOElectrode
	reg := PWM0 + n/2
	pwm, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	if n%2 == 0 {
		pwm = pwm&0xF0 | duty
	} else {
		pwm = pwm&0x0F | duty<<4
	}
	return d.writeRegister(reg, pwm)
}

func (d *Device) gpioMask(electrode uint8) (uint8, error) {
	if !d.Initialized() {
		return 0, NotInitialized
	}
	if electrode < firstGPIOElectrode || electrode > lastGPIOElectrode {
		return 0, ErrInvalidElectrode
	}
	return 1 << (electrode - firstGPIOElectrode), nil
}
