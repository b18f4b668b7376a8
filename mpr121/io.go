package mpr121

// writeRegister writes a single register. Writes to registers below CTL0 are only accepted
// while the electrodes are stopped, so a running device is stopped around them.
func (d *Device) writeRegister(reg, val uint8) error {
	restart := false
	if reg != ECR && reg < CTL0 && d.running && d.Initialized() {
		if err := d.Stop(); err != nil {
			return err
		}
		restart = true
	}

	d.wbuf[0] = reg
	d.wbuf[1] = val
	err := d.bus.Tx(d.addr, d.wbuf[:], nil)
	d.faults.AddressUnknown = err != nil
	if err == nil && reg == ECR {
		d.running = val&ecrRunMask != 0
	}

	if restart {
		if rerr := d.Run(); err == nil {
			err = rerr
		}
	}
	return err
}

// readRegister reads a single register. Reads of the status registers update the
// Overcurrent and OutOfRange flags.
func (d *Device) readRegister(reg uint8) (uint8, error) {
	d.wbuf[0] = reg
	err := d.bus.Tx(d.addr, d.wbuf[:1], d.buf[:1])
	d.faults.AddressUnknown = err != nil
	if err != nil {
		return 0, err
	}

	val := d.buf[0]
	switch reg {
	case TS2:
		d.faults.Overcurrent = val&overcurrentBit != 0
	case OORS1, OORS2:
		d.faults.OutOfRange = val != 0
	}
	return val, nil
}

// readBurst reads len(buf) consecutive registers in one transaction. buf is only valid
// if no error is returned; a short transfer is reported by the bus as an error.
//
// Any read resets the IRQ line, so if it is asserted now the caller would otherwise never
// see it. That is remembered for TouchStatusChanged.
func (d *Device) readBurst(reg uint8, buf []byte) error {
	d.notePendingIRQ()
	d.wbuf[0] = reg
	err := d.bus.Tx(d.addr, d.wbuf[:1], buf)
	d.faults.AddressUnknown = err != nil
	return err
}

// updateBits sets or clears mask in reg with a read-modify-write.
func (d *Device) updateBits(reg, mask uint8, set bool) error {
	val, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	if set {
		val |= mask
	} else {
		val &^= mask
	}
	return d.writeRegister(reg, val)
}
