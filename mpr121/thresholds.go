package mpr121

// SetThresholds sets every channel to the specified thresholds.
//
// Threshold settings are dependent on the touch/release signal strength, system sensitivity and noise immunity requirements. In
// a typical touch detection application, threshold is typically in the range 0x04~0x10. The touch threshold is several counts larger
// than the release threshold. This is to provide hysteresis and to prevent noise and jitter. For more information, refer to the
// application note AN3892 and the MPR121 design guidelines.
func (d *Device) SetThresholds(touch, release uint8) error {
	return d.Batch(func() error {
		for e := uint8(0); e < ElectrodeCount; e++ {
			if err := d.SetThreshold(e, touch, release); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetThreshold sets the given channel to the specified thresholds. See SetThresholds.
func (d *Device) SetThreshold(channel, touch, release uint8) error {
	if err := d.checkElectrode(channel); err != nil {
		return err
	}
	return d.Batch(func() error {
		if err := d.writeRegister(E0TTH+channel<<1, touch); err != nil {
			return err
		}
		return d.writeRegister(E0RTH+channel<<1, release)
	})
}

// SetTouchThresholds sets the touch threshold of every channel.
func (d *Device) SetTouchThresholds(threshold uint8) error {
	return d.Batch(func() error {
		for e := uint8(0); e < ElectrodeCount; e++ {
			if err := d.SetTouchThreshold(e, threshold); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetTouchThreshold sets the touch threshold of one channel.
func (d *Device) SetTouchThreshold(channel, threshold uint8) error {
	if err := d.checkElectrode(channel); err != nil {
		return err
	}
	return d.writeRegister(E0TTH+channel<<1, threshold)
}

// SetReleaseThresholds sets the release threshold of every channel.
func (d *Device) SetReleaseThresholds(threshold uint8) error {
	return d.Batch(func() error {
		for e := uint8(0); e < ElectrodeCount; e++ {
			if err := d.SetReleaseThreshold(e, threshold); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetReleaseThreshold sets the release threshold of one channel.
func (d *Device) SetReleaseThreshold(channel, threshold uint8) error {
	if err := d.checkElectrode(channel); err != nil {
		return err
	}
	return d.writeRegister(E0RTH+channel<<1, threshold)
}

// TouchThreshold reads back the touch threshold of one channel.
func (d *Device) TouchThreshold(channel uint8) (uint8, error) {
	if err := d.checkElectrode(channel); err != nil {
		return 0, err
	}
	return d.readRegister(E0TTH + channel<<1)
}

// ReleaseThreshold reads back the release threshold of one channel.
func (d *Device) ReleaseThreshold(channel uint8) (uint8, error) {
	if err := d.checkElectrode(channel); err != nil {
		return 0, err
	}
	return d.readRegister(E0RTH + channel<<1)
}
