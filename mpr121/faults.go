package mpr121

import "errors"

// Fault is a condition tracked by the driver. Every Fault other than NoError is also an
// error, so it can be returned and matched with errors.Is.
type Fault uint8

const (
	NoError Fault = iota
	// NotInitialized means Configure has not succeeded yet.
	NotInitialized
	// AddressUnknown means the last bus transaction failed, usually a NACK.
	AddressUnknown
	// ReadbackFailure means AFE2 did not hold its reset value after a soft reset.
	ReadbackFailure
	// Overcurrent means the chip flagged overcurrent on REXT (TS2 bit 7).
	Overcurrent
	// OutOfRange means an electrode failed auto-configuration (OORS1/OORS2).
	OutOfRange
)

func (f Fault) String() string {
	switch f {
	case NoError:
		return "no error"
	case NotInitialized:
		return "not initialized"
	case AddressUnknown:
		return "address unknown"
	case ReadbackFailure:
		return "readback failure"
	case Overcurrent:
		return "overcurrent"
	case OutOfRange:
		return "out of range"
	default:
		return "unknown fault"
	}
}

func (f Fault) Error() string {
	return "mpr121: " + f.String()
}

// Faults is the set of sticky fault flags held by a Device.
type Faults struct {
	NotInitialized  bool
	AddressUnknown  bool
	ReadbackFailure bool
	Overcurrent     bool
	OutOfRange      bool
}

// Primary returns the single most important fault in f.
func (f Faults) Primary() Fault {
	switch {
	case f.NotInitialized:
		return NotInitialized
	case f.AddressUnknown:
		return AddressUnknown
	case f.ReadbackFailure:
		return ReadbackFailure
	case f.Overcurrent:
		return Overcurrent
	case f.OutOfRange:
		return OutOfRange
	default:
		return NoError
	}
}

// Any reports whether any flag is set.
func (f Faults) Any() bool {
	return f != Faults{}
}

var (
	ErrInvalidElectrode    = errors.New("mpr121: electrode out of range")
	ErrInvalidPinMode      = errors.New("mpr121: invalid pin mode")
	ErrInvalidValue        = errors.New("mpr121: value out of range")
	ErrBusSpeedUnsupported = errors.New("mpr121: bus does not support changing speed")
)
