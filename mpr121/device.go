// Package mpr121 provides a driver for the MPR121 capacitive touch sensor.
//
// Most configuration registers are only writable while the electrodes are stopped. The
// driver tracks whether the chip is running and stops and restarts it around such writes,
// so callers can change configuration at any time. Use Batch to group several changes
// under a single stop/run cycle.
//
// A Device is not safe for concurrent use. It never starts goroutines; the interrupt line
// is polled, see TouchStatusChanged.
//
// Datasheet: https://cdn-shop.adafruit.com/datasheets/MPR121.pdf
package mpr121

import (
	"time"

	"tinygo.org/x/drivers"
)

// Device wraps an I2C connection to an MPR121 device.
type Device struct {
	bus  drivers.I2C
	addr uint16

	// ECR contents restored by Run
	ecrBackup uint8
	running   bool
	faults    Faults

	touch     Report
	prevTouch Report
	baseline  [ElectrodeCount]uint16
	filtered  [ElectrodeCount]uint16

	irq     Pin
	irqSeen bool // IRQ was asserted around a read that cleared it

	log  Logger
	buf  [2 * ElectrodeCount]byte
	wbuf [2]byte
}

// Config is used by Configure. All fields are optional.
type Config struct {
	// Address defaults to the address the device already has, DefaultAddress for a new one.
	Address uint8
	// Settings defaults to DefaultSettings().
	Settings *Settings
	// TouchThreshold and ReleaseThreshold override the values in Settings when non-zero.
	TouchThreshold   uint8
	ReleaseThreshold uint8
	// ProximityMode overrides the proximity bits of Settings.ECR when not ProximityModeOff.
	ProximityMode ProximityMode
	// AutoConfig enables the device's own automatic charge configuration, with limits
	// suitable for Vdd = 3.3 V.
	AutoConfig bool
	Logger     Logger
}

// Logger receives diagnostic lines from the driver.
type Logger interface {
	Println(string) error
}

// ProximityMode indicates how many channels are bundled together for the proximity sensor (starting from the first channel).
type ProximityMode uint8

const (
	ProximityModeOff ProximityMode = iota
	ProximityModeTwo
	ProximityModeFour
	ProximityModeTwelve
)

// New creates a new MPR121 driver on the provided I2C bus. The datasheet says it doesn't
// support more than 400 kHz.
//
// The device starts out NotInitialized; call Configure before using it.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:    bus,
		addr:   DefaultAddress,
		faults: Faults{NotInitialized: true},
	}
}

// Configure resets the device and applies the configured settings. On failure the device
// is left NotInitialized and the returned error is the primary Fault or a bus error.
func (d *Device) Configure(c Config) error {
	if c.Address != 0 {
		d.addr = uint16(c.Address)
	}
	if c.Logger != nil {
		d.log = c.Logger
	}

	s := DefaultSettings()
	if c.Settings != nil {
		s = *c.Settings
	}
	if c.TouchThreshold != 0 {
		s.TouchThreshold = c.TouchThreshold
	}
	if c.ReleaseThreshold != 0 {
		s.ReleaseThreshold = c.ReleaseThreshold
	}
	if c.ProximityMode != ProximityModeOff {
		s.ECR = s.ECR&^ecrProxMask | uint8(c.ProximityMode&0b11)<<4
	}
	if c.AutoConfig {
		s.ACCR0 = 0x0B
		// correct values for Vdd = 3.3V
		s.USL = 200 // ((Vdd - 0.7)/Vdd) * 256
		s.TL = 180  // UPLIMIT * 0.9
		s.LSL = 130 // UPLIMIT * 0.65
	}

	d.faults.NotInitialized = false
	if err := d.Reset(); err != nil {
		d.faults.NotInitialized = true
		d.println("mpr121: reset failed: " + err.Error())
		return err
	}
	if err := d.ApplySettings(s); err != nil {
		d.faults.NotInitialized = true
		d.println("mpr121: applying settings failed: " + err.Error())
		return err
	}
	return nil
}

// Reset soft-resets the device and checks that it came back with its documented register
// defaults and without an overcurrent condition. It leaves the electrodes stopped.
func (d *Device) Reset() error {
	if err := d.writeRegister(SRST, softResetCommand); err == nil {
		d.running = false
		d.ecrBackup = 0
	}
	time.Sleep(time.Millisecond)

	// AFE2 is one of the few registers with a non-zero reset value
	afe2, err := d.readRegister(AFE2)
	d.faults.ReadbackFailure = err != nil || afe2 != afe2ResetValue

	d.readRegister(TS2) // updates Overcurrent

	switch f := d.Fault(); f {
	case NoError, NotInitialized:
		return nil
	default:
		return f
	}
}

// Run re-enables the electrodes that were enabled when the device was last stopped.
func (d *Device) Run() error {
	if !d.Initialized() {
		return NotInitialized
	}
	if d.running {
		return nil
	}
	return d.writeRegister(ECR, d.ecrBackup)
}

// Stop disables all electrodes, keeping the calibration lock bits, so that configuration
// registers can be written. The previous ECR value is kept for Run.
func (d *Device) Stop() error {
	if !d.Initialized() {
		return NotInitialized
	}
	if !d.running {
		return nil
	}
	ecr, err := d.readRegister(ECR)
	if err != nil {
		return err
	}
	d.ecrBackup = ecr
	return d.writeRegister(ECR, ecr&ecrCLMask)
}

// Batch stops the device if it is running, calls fn, and then restarts it. Mutators called
// from fn see a stopped device and do not stop and restart it again.
func (d *Device) Batch(fn func() error) error {
	if !d.Initialized() {
		return NotInitialized
	}
	return d.bracket(fn)
}

func (d *Device) bracket(fn func() error) error {
	wasRunning := d.running && d.Initialized()
	if wasRunning {
		if err := d.Stop(); err != nil {
			return err
		}
	}
	err := fn()
	if wasRunning {
		if rerr := d.Run(); err == nil {
			err = rerr
		}
	}
	return err
}

// Running reports whether any electrode was enabled by the last ECR write.
func (d *Device) Running() bool {
	return d.running
}

// Initialized reports whether Configure or ApplySettings has succeeded.
func (d *Device) Initialized() bool {
	return !d.faults.NotInitialized
}

// Address returns the I2C address in use.
func (d *Device) Address() uint8 {
	return uint8(d.addr)
}

// Fault reads the out-of-range status registers and returns the most important fault
// currently flagged. Reading the status resets the IRQ line.
func (d *Device) Fault() Fault {
	oor := d.buf[:2]
	if err := d.readBurst(OORS1, oor); err == nil {
		d.faults.OutOfRange = oor[0] != 0 || oor[1] != 0
	}
	return d.faults.Primary()
}

// Faults returns the raw fault flags without touching the bus.
func (d *Device) Faults() Faults {
	return d.faults
}

// ClearFaults clears the fault flags. NotInitialized is kept; only a successful Configure
// or ApplySettings clears it.
func (d *Device) ClearFaults() {
	d.faults = Faults{NotInitialized: d.faults.NotInitialized}
}

func (d *Device) println(s string) {
	if d.log != nil {
		d.log.Println(s)
	}
}
