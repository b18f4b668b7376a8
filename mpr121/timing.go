package mpr121

// SamplePeriod is the electrode sampling interval (AFE2 SFI bits).
type SamplePeriod uint8

const (
	SamplePeriod1ms SamplePeriod = iota
	SamplePeriod2ms
	SamplePeriod4ms
	SamplePeriod8ms
	SamplePeriod16ms
	SamplePeriod32ms
	SamplePeriod64ms
	SamplePeriod128ms
)

// SetSamplePeriod changes the sample period, keeping the other AFE2 fields.
func (d *Device) SetSamplePeriod(p SamplePeriod) error {
	if !d.Initialized() {
		return NotInitialized
	}
	if p > SamplePeriod128ms {
		return ErrInvalidValue
	}
	afe2, err := d.readRegister(AFE2)
	if err != nil {
		return err
	}
	return d.writeRegister(AFE2, afe2&0xF8|uint8(p))
}

// SetProximityMode selects which electrodes are bundled into the proximity channel. The
// change takes effect when the device runs; a stopped device stays stopped.
func (d *Device) SetProximityMode(m ProximityMode) error {
	if m > ProximityModeTwelve {
		return ErrInvalidValue
	}
	return d.Batch(func() error {
		d.ecrBackup = d.ecrBackup&^ecrProxMask | uint8(m)<<4
		return nil
	})
}

// SetDigitalPinCount reserves the top count electrodes of ELE4..ELE11 for GPIO by scanning
// only the remaining ones. Counts above DigitalPinCountMax are clamped. Like
// SetProximityMode, the change takes effect when the device runs.
func (d *Device) SetDigitalPinCount(count uint8) error {
	if count > DigitalPinCountMax {
		count = DigitalPinCountMax
	}
	return d.Batch(func() error {
		d.ecrBackup = (ElectrodeCount-1-count)&0x0F | d.ecrBackup&0xF0
		return nil
	})
}

// BusSpeed is an I2C clock frequency in Hz.
type BusSpeed uint32

const (
	BusSpeedStandard BusSpeed = 100_000
	BusSpeedFast     BusSpeed = 400_000
)

// baudRateSetter is implemented by machine.I2C.
type baudRateSetter interface {
	SetBaudRate(br uint32) error
}

// SetBusSpeed changes the I2C clock, if the bus supports it. This affects every device on
// the bus.
func (d *Device) SetBusSpeed(s BusSpeed) error {
	b, ok := d.bus.(baudRateSetter)
	if !ok {
		return ErrBusSpeedUnsupported
	}
	return b.SetBaudRate(uint32(s))
}
