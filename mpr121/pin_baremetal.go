//go:build baremetal

package mpr121

import "machine"

// InterruptPin configures p as an input with a pull-up for the open-drain, active-low IRQ
// output and returns it for use in Settings or SetInterruptPin.
func InterruptPin(p machine.Pin) Pin {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return p
}
