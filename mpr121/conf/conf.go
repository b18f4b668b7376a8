// Package conf reads and writes MPR121 settings profiles.
//
// A profile is a YAML document describing the register settings in datasheet terms.
// Fields missing from a document keep the driver defaults, so a profile only needs to
// name what it changes:
//
//	thresholds:
//	  touch: 16
//	  release: 8
//	electrodes: 8
//	proximity: 4
//	filters:
//	  rising: {mhd: 1, nhd: 1, ncl: 14, fdl: 0}
package conf // import "github.com/ajanata/touch/mpr121/conf"

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ajanata/touch/mpr121"
)

// Profile is the YAML form of mpr121.Settings.
type Profile struct {
	Thresholds Thresholds `yaml:"thresholds"`
	// Electrodes is the number of electrodes scanned, starting at ELE0.
	Electrodes uint8 `yaml:"electrodes"`
	// Proximity is the number of electrodes bundled into the proximity channel: 0, 2, 4 or 12.
	Proximity uint8 `yaml:"proximity"`
	// CalibrationLock is the ECR CL field.
	CalibrationLock uint8 `yaml:"calibration_lock"`

	Filters          FilterSet `yaml:"filters"`
	ProximityFilters FilterSet `yaml:"proximity_filters"`

	Debounce uint8      `yaml:"debounce"`
	AFE1     uint8      `yaml:"afe1"`
	AFE2     uint8      `yaml:"afe2"`
	Auto     AutoConfig `yaml:"auto_config"`
}

type Thresholds struct {
	Touch   uint8 `yaml:"touch"`
	Release uint8 `yaml:"release"`
}

// Filter holds the baseline filter parameters for one data direction.
type Filter struct {
	MHD uint8 `yaml:"mhd"`
	NHD uint8 `yaml:"nhd"`
	NCL uint8 `yaml:"ncl"`
	FDL uint8 `yaml:"fdl"`
}

// FilterSet holds filters for rising, falling and touched data. Touched data has no MHD.
type FilterSet struct {
	Rising  Filter `yaml:"rising"`
	Falling Filter `yaml:"falling"`
	Touched Filter `yaml:"touched"`
}

type AutoConfig struct {
	ACCR0 uint8 `yaml:"accr0"`
	ACCR1 uint8 `yaml:"accr1"`
	USL   uint8 `yaml:"usl"`
	LSL   uint8 `yaml:"lsl"`
	TL    uint8 `yaml:"tl"`
}

var proximityModes = map[uint8]mpr121.ProximityMode{
	0:  mpr121.ProximityModeOff,
	2:  mpr121.ProximityModeTwo,
	4:  mpr121.ProximityModeFour,
	12: mpr121.ProximityModeTwelve,
}

var proximityElectrodes = [...]uint8{0, 2, 4, 12}

// Default returns the profile of mpr121.DefaultSettings.
func Default() Profile {
	return FromSettings(mpr121.DefaultSettings())
}

// FromSettings converts s to a Profile. The interrupt pin is not part of a profile.
func FromSettings(s mpr121.Settings) Profile {
	return Profile{
		Thresholds:      Thresholds{Touch: s.TouchThreshold, Release: s.ReleaseThreshold},
		Electrodes:      s.ECR & 0x0F,
		Proximity:       proximityElectrodes[s.ECR>>4&0b11],
		CalibrationLock: s.ECR >> 6,
		Filters: FilterSet{
			Rising:  Filter{MHD: s.MHDR, NHD: s.NHDR, NCL: s.NCLR, FDL: s.FDLR},
			Falling: Filter{MHD: s.MHDF, NHD: s.NHDF, NCL: s.NCLF, FDL: s.FDLF},
			Touched: Filter{NHD: s.NHDT, NCL: s.NCLT, FDL: s.FDLT},
		},
		ProximityFilters: FilterSet{
			Rising:  Filter{MHD: s.MHDPROXR, NHD: s.NHDPROXR, NCL: s.NCLPROXR, FDL: s.FDLPROXR},
			Falling: Filter{MHD: s.MHDPROXF, NHD: s.NHDPROXF, NCL: s.NCLPROXF, FDL: s.FDLPROXF},
			Touched: Filter{NHD: s.NHDPROXT, NCL: s.NCLPROXT, FDL: s.FDLPROXT},
		},
		Debounce: s.DTR,
		AFE1:     s.AFE1,
		AFE2:     s.AFE2,
		Auto: AutoConfig{
			ACCR0: s.ACCR0,
			ACCR1: s.ACCR1,
			USL:   s.USL,
			LSL:   s.LSL,
			TL:    s.TL,
		},
	}
}

// Settings converts p to driver settings. p should be valid, see Validate.
func (p Profile) Settings() mpr121.Settings {
	return mpr121.Settings{
		TouchThreshold:   p.Thresholds.Touch,
		ReleaseThreshold: p.Thresholds.Release,

		MHDR: p.Filters.Rising.MHD,
		NHDR: p.Filters.Rising.NHD,
		NCLR: p.Filters.Rising.NCL,
		FDLR: p.Filters.Rising.FDL,
		MHDF: p.Filters.Falling.MHD,
		NHDF: p.Filters.Falling.NHD,
		NCLF: p.Filters.Falling.NCL,
		FDLF: p.Filters.Falling.FDL,
		NHDT: p.Filters.Touched.NHD,
		NCLT: p.Filters.Touched.NCL,
		FDLT: p.Filters.Touched.FDL,

		MHDPROXR: p.ProximityFilters.Rising.MHD,
		NHDPROXR: p.ProximityFilters.Rising.NHD,
		NCLPROXR: p.ProximityFilters.Rising.NCL,
		FDLPROXR: p.ProximityFilters.Rising.FDL,
		MHDPROXF: p.ProximityFilters.Falling.MHD,
		NHDPROXF: p.ProximityFilters.Falling.NHD,
		NCLPROXF: p.ProximityFilters.Falling.NCL,
		FDLPROXF: p.ProximityFilters.Falling.FDL,
		NHDPROXT: p.ProximityFilters.Touched.NHD,
		NCLPROXT: p.ProximityFilters.Touched.NCL,
		FDLPROXT: p.ProximityFilters.Touched.FDL,

		DTR:   p.Debounce,
		AFE1:  p.AFE1,
		AFE2:  p.AFE2,
		ECR:   p.CalibrationLock<<6 | uint8(proximityModes[p.Proximity])<<4 | p.Electrodes,
		ACCR0: p.Auto.ACCR0,
		ACCR1: p.Auto.ACCR1,
		USL:   p.Auto.USL,
		LSL:   p.Auto.LSL,
		TL:    p.Auto.TL,
	}
}

// Validate checks the fields that do not map onto a whole register.
func (p Profile) Validate() error {
	var errs []error
	if p.Electrodes > mpr121.ElectrodeCount-1 {
		errs = append(errs, fmt.Errorf("electrodes: %d is more than 12", p.Electrodes))
	}
	if _, ok := proximityModes[p.Proximity]; !ok {
		errs = append(errs, fmt.Errorf("proximity: %d is not one of 0, 2, 4, 12", p.Proximity))
	}
	if p.CalibrationLock > 3 {
		errs = append(errs, fmt.Errorf("calibration_lock: %d is more than 3", p.CalibrationLock))
	}
	if p.Thresholds.Release > p.Thresholds.Touch {
		errs = append(errs, fmt.Errorf("thresholds: release %d is above touch %d", p.Thresholds.Release, p.Thresholds.Touch))
	}
	if p.Filters.Touched.MHD != 0 {
		errs = append(errs, errors.New("filters.touched: mhd is not configurable for touched data"))
	}
	if p.ProximityFilters.Touched.MHD != 0 {
		errs = append(errs, errors.New("proximity_filters.touched: mhd is not configurable for touched data"))
	}
	return errors.Join(errs...)
}

// Load decodes a profile from r on top of the defaults and validates it. Unknown fields
// are rejected.
func Load(r io.Reader) (Profile, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("conf: decode: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, fmt.Errorf("conf: invalid profile: %w", err)
	}
	return p, nil
}

// Write encodes p as YAML.
func Write(w io.Writer, p Profile) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}
