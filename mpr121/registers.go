package mpr121

// I2C addresses selectable with the ADDR pin.
const (
	DefaultAddress = 0x5A // ADDR to GND
	AddressVDD     = 0x5B
	AddressSDA     = 0x5C
	AddressSCL     = 0x5D
)

// Register map, named as in the datasheet.
const (
	TS1   = 0x00 // touch status ELE0..ELE7
	TS2   = 0x01 // touch status ELE8..ELEPROX, bit 7 is the overcurrent flag
	OORS1 = 0x02 // out-of-range status ELE0..ELE7
	OORS2 = 0x03 // out-of-range status ELE8..ELEPROX, auto-config fail flags
	E0FDL = 0x04 // filtered data, LSB/MSB pairs through 0x1D
	E0FDH = 0x05
	E0BV  = 0x1E // baseline values through 0x2A

	MHDR = 0x2B
	NHDR = 0x2C
	NCLR = 0x2D
	FDLR = 0x2E
	MHDF = 0x2F
	NHDF = 0x30
	NCLF = 0x31
	FDLF = 0x32
	NHDT = 0x33
	NCLT = 0x34
	FDLT = 0x35

	MHDPROXR = 0x36
	NHDPROXR = 0x37
	NCLPROXR = 0x38
	FDLPROXR = 0x39
	MHDPROXF = 0x3A
	NHDPROXF = 0x3B
	NCLPROXF = 0x3C
	FDLPROXF = 0x3D
	NHDPROXT = 0x3E
	NCLPROXT = 0x3F
	FDLPROXT = 0x40

	E0TTH = 0x41 // touch threshold, interleaved with release thresholds through 0x5A
	E0RTH = 0x42

	DTR  = 0x5B // debounce
	AFE1 = 0x5C // filter and global CDC configuration
	AFE2 = 0x5D // filter and global CDT configuration, sample period
	ECR  = 0x5E // electrode configuration
	CDC0 = 0x5F // per-electrode charge current through 0x6B
	CDT0 = 0x6C // per-electrode charge time through 0x72

	CTL0 = 0x73 // GPIO control 0
	CTL1 = 0x74 // GPIO control 1
	DAT  = 0x75 // GPIO data
	DIR  = 0x76 // GPIO direction
	EN   = 0x77 // GPIO enable
	SET  = 0x78 // GPIO data set
	CLR  = 0x79 // GPIO data clear
	TOG  = 0x7A // GPIO data toggle

	ACCR0 = 0x7B // auto-config control 0
	ACCR1 = 0x7C // auto-config control 1
	USL   = 0x7D // auto-config upper side limit
	LSL   = 0x7E // auto-config lower side limit
	TL    = 0x7F // auto-config target level

	SRST = 0x80 // soft reset, write 0x63

	PWM0 = 0x81
	PWM1 = 0x82
	PWM2 = 0x83
	PWM3 = 0x84
)

const (
	// ElectrodeCount is the number of sensing channels: ELE0..ELE11 plus ELEPROX.
	ElectrodeCount = 13

	// DigitalPinCountMax is the number of electrodes (ELE4..ELE11) that can be muxed to GPIO.
	DigitalPinCountMax = 8

	firstGPIOElectrode = 4
	lastGPIOElectrode  = 11

	softResetCommand = 0x63
	afe2ResetValue   = 0x24

	ecrRunMask  = 0x3F // ELEPROX_EN and ELE_EN
	ecrCLMask   = 0xC0 // calibration lock, kept across stop
	ecrProxMask = 0x30 // ELEPROX_EN

	overcurrentBit = 0x80
	filteredMask   = 0x03FF
)
