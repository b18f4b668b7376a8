package mpr121

// Settings holds a value for every configuration register the driver programs, plus the
// thresholds applied to all electrodes and the interrupt line.
//
// The filter fields follow the datasheet: MHD is maximum half delta, NHD noise half delta,
// NCL noise count limit and FDL filter delay limit, for rising (R), falling (F) and touched
// (T) data. The PROX variants apply to the proximity channel.
type Settings struct {
	TouchThreshold   uint8
	ReleaseThreshold uint8
	// Interrupt is the active-low IRQ line. It may be nil.
	Interrupt Pin

	MHDR uint8
	NHDR uint8
	NCLR uint8
	FDLR uint8
	MHDF uint8
	NHDF uint8
	NCLF uint8
	FDLF uint8
	NHDT uint8
	NCLT uint8
	FDLT uint8

	MHDPROXR uint8
	NHDPROXR uint8
	NCLPROXR uint8
	FDLPROXR uint8
	MHDPROXF uint8
	NHDPROXF uint8
	NCLPROXF uint8
	FDLPROXF uint8
	NHDPROXT uint8
	NCLPROXT uint8
	FDLPROXT uint8

	DTR   uint8
	AFE1  uint8
	AFE2  uint8
	ECR   uint8
	ACCR0 uint8
	ACCR1 uint8
	USL   uint8
	LSL   uint8
	TL    uint8
}

// DefaultSettings returns the settings applied by Configure when none are given. They run
// ELE0..ELE11 with a 1 ms sample period and 16 µA charge current.
func DefaultSettings() Settings {
	return Settings{
		TouchThreshold:   40,
		ReleaseThreshold: 20,

		MHDR: 0x01,
		NHDR: 0x01,
		NCLR: 0x10,
		FDLR: 0x20,
		MHDF: 0x01,
		NHDF: 0x01,
		NCLF: 0x10,
		FDLF: 0x20,
		NHDT: 0x01,
		NCLT: 0x10,
		FDLT: 0xFF,

		MHDPROXR: 0x0F,
		NHDPROXR: 0x0F,
		NCLPROXR: 0x00,
		FDLPROXR: 0x00,
		MHDPROXF: 0x01,
		NHDPROXF: 0x01,
		NCLPROXF: 0xFF,
		FDLPROXF: 0xFF,
		NHDPROXT: 0x00,
		NCLPROXT: 0x00,
		FDLPROXT: 0x00,

		DTR:   0x11,
		AFE1:  0xFF,
		AFE2:  0x30,
		ECR:   0xCC,
		ACCR0: 0x00,
		ACCR1: 0x00,
		USL:   0x00,
		LSL:   0x00,
		TL:    0x00,
	}
}

type regValue struct {
	reg, val uint8
}

// registers lists every register except ECR in the order they must be written.
func (s *Settings) registers() [30]regValue {
	return [30]regValue{
		{MHDR, s.MHDR},
		{NHDR, s.NHDR},
		{NCLR, s.NCLR},
		{FDLR, s.FDLR},
		{MHDF, s.MHDF},
		{NHDF, s.NHDF},
		{NCLF, s.NCLF},
		{FDLF, s.FDLF},
		{NHDT, s.NHDT},
		{NCLT, s.NCLT},
		{FDLT, s.FDLT},
		{MHDPROXR, s.MHDPROXR},
		{NHDPROXR, s.NHDPROXR},
		{NCLPROXR, s.NCLPROXR},
		{FDLPROXR, s.FDLPROXR},
		{MHDPROXF, s.MHDPROXF},
		{NHDPROXF, s.NHDPROXF},
		{NCLPROXF, s.NCLPROXF},
		{FDLPROXF, s.FDLPROXF},
		{NHDPROXT, s.NHDPROXT},
		{NCLPROXT, s.NCLPROXT},
		{FDLPROXT, s.FDLPROXT},
		{DTR, s.DTR},
		{AFE1, s.AFE1},
		{AFE2, s.AFE2},
		{ACCR0, s.ACCR0},
		{ACCR1, s.ACCR1},
		{USL, s.USL},
		{LSL, s.LSL},
		{TL, s.TL},
	}
}

// ApplySettings programs every register in s, ending with ECR, then marks the device
// initialized and sets the thresholds and interrupt line. If the device was running it is
// stopped for the duration and left running with s.ECR afterwards.
func (d *Device) ApplySettings(s Settings) error {
	return d.bracket(func() error {
		for _, r := range s.registers() {
			if err := d.writeRegister(r.reg, r.val); err != nil {
				return err
			}
		}
		if err := d.writeRegister(ECR, s.ECR); err != nil {
			return err
		}
		d.ecrBackup = s.ECR
		d.faults.NotInitialized = false

		if err := d.SetThresholds(s.TouchThreshold, s.ReleaseThreshold); err != nil {
			return err
		}
		return d.SetInterruptPin(s.Interrupt)
	})
}
