package mpr121

import "math/bits"

// Report is a touch status bitmap with one bit per electrode, ELEPROX being bit 12.
type Report uint16

const allElectrodes Report = 1<<ElectrodeCount - 1

// Touched reports whether the given channel was touched.
func (r Report) Touched(channel uint8) bool {
	return channel < ElectrodeCount && r&(1<<channel) > 0
}

// Count returns the number of touched channels.
func (r Report) Count() int {
	return bits.OnesCount16(uint16(r & allElectrodes))
}

// Pin is an input pin. machine.Pin satisfies it.
type Pin interface {
	Get() bool
}

// UpdateTouchData reads the touch status of every electrode in one transaction. The
// previous status is kept for IsNewTouch and IsNewRelease.
func (d *Device) UpdateTouchData() error {
	if !d.Initialized() {
		return NotInitialized
	}
	// this read is what clears the IRQ line
	d.irqSeen = false

	buf := d.buf[:2]
	d.wbuf[0] = TS1
	err := d.bus.Tx(d.addr, d.wbuf[:1], buf)
	d.faults.AddressUnknown = err != nil
	if err != nil {
		return err
	}
	d.faults.Overcurrent = buf[1]&overcurrentBit != 0

	d.prevTouch = d.touch
	d.touch = Report(uint16(buf[0])|uint16(buf[1])<<8) & allElectrodes
	return nil
}

// UpdateBaselineData reads the baseline value of every electrode. The chip only stores the
// upper 8 of the 10 bits.
func (d *Device) UpdateBaselineData() error {
	if !d.Initialized() {
		return NotInitialized
	}
	buf := d.buf[:ElectrodeCount]
	if err := d.readBurst(E0BV, buf); err != nil {
		return err
	}
	for i, b := range buf {
		d.baseline[i] = uint16(b) << 2
	}
	return nil
}

// UpdateFilteredData reads the 10-bit filtered value of every electrode.
func (d *Device) UpdateFilteredData() error {
	if !d.Initialized() {
		return NotInitialized
	}
	buf := d.buf[:2*ElectrodeCount]
	if err := d.readBurst(E0FDL, buf); err != nil {
		return err
	}
	for i := range d.filtered {
		d.filtered[i] = (uint16(buf[2*i]) | uint16(buf[2*i+1])<<8) & filteredMask
	}
	return nil
}

// UpdateAll refreshes touch, baseline and filtered data. All three reads are attempted; the
// first error is returned.
func (d *Device) UpdateAll() error {
	err := d.UpdateTouchData()
	if berr := d.UpdateBaselineData(); err == nil {
		err = berr
	}
	if ferr := d.UpdateFilteredData(); err == nil {
		err = ferr
	}
	return err
}

// Status returns the touch status read by the last UpdateTouchData.
func (d *Device) Status() Report {
	if !d.Initialized() {
		return 0
	}
	return d.touch
}

// Previous returns the touch status before the last UpdateTouchData.
func (d *Device) Previous() Report {
	if !d.Initialized() {
		return 0
	}
	return d.prevTouch
}

// Touched reports whether the electrode was touched at the last UpdateTouchData.
func (d *Device) Touched(electrode uint8) bool {
	return d.Status().Touched(electrode)
}

// TouchCount returns the number of electrodes touched at the last UpdateTouchData.
func (d *Device) TouchCount() int {
	return d.Status().Count()
}

// IsNewTouch reports whether the electrode went from released to touched between the last
// two calls to UpdateTouchData.
func (d *Device) IsNewTouch(electrode uint8) bool {
	return !d.Previous().Touched(electrode) && d.Status().Touched(electrode)
}

// IsNewRelease reports whether the electrode went from touched to released between the
// last two calls to UpdateTouchData.
func (d *Device) IsNewRelease(electrode uint8) bool {
	return d.Previous().Touched(electrode) && !d.Status().Touched(electrode)
}

// Baseline returns the baseline value read by the last UpdateBaselineData.
func (d *Device) Baseline(electrode uint8) (uint16, error) {
	if err := d.checkElectrode(electrode); err != nil {
		return 0, err
	}
	return d.baseline[electrode], nil
}

// Filtered returns the filtered value read by the last UpdateFilteredData.
func (d *Device) Filtered(electrode uint8) (uint16, error) {
	if err := d.checkElectrode(electrode); err != nil {
		return 0, err
	}
	return d.filtered[electrode], nil
}

// SetInterruptPin sets the IRQ line used by TouchStatusChanged. The pin must already be
// configured as an input with a pull-up; on TinyGo see InterruptPin. A nil pin unbinds it.
func (d *Device) SetInterruptPin(p Pin) error {
	if !d.Initialized() {
		return NotInitialized
	}
	d.irq = p
	return nil
}

// HasInterruptPin reports whether an IRQ line is bound.
func (d *Device) HasInterruptPin() bool {
	return d.irq != nil
}

// TouchStatusChanged reports whether the touch status may have changed since the last
// UpdateTouchData: either the IRQ line is asserted (low) now, or it was asserted around a
// read of other registers, which resets it.
//
// Without an interrupt pin only the second case can be detected.
func (d *Device) TouchStatusChanged() bool {
	return d.irqSeen || d.irqAsserted()
}

func (d *Device) irqAsserted() bool {
	return d.irq != nil && !d.irq.Get()
}

func (d *Device) notePendingIRQ() {
	if d.irqAsserted() {
		d.irqSeen = true
	}
}

func (d *Device) checkElectrode(electrode uint8) error {
	if !d.Initialized() {
		return NotInitialized
	}
	if electrode >= ElectrodeCount {
		return ErrInvalidElectrode
	}
	return nil
}
