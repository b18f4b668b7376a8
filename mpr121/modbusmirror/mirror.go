// Package modbusmirror copies MPR121 electrode state into Modbus holding registers, so PLCs
// and SCADA software can read a touch panel.
//
// The block written at the base address is:
//
//	base+0         touch status bitmap
//	base+1         primary fault code (mpr121.Fault)
//	base+2..14     filtered data, ELE0..ELEPROX
//	base+15..27    baseline data, ELE0..ELEPROX
package modbusmirror // import "github.com/ajanata/touch/mpr121/modbusmirror"

import (
	"errors"
	"time"

	"github.com/goburrow/modbus"

	"github.com/ajanata/touch/mpr121"
)

const (
	SlotStatus   = 0
	SlotFault    = 1
	SlotFiltered = 2
	SlotBaseline = SlotFiltered + mpr121.ElectrodeCount

	// BlockSize is the number of registers written per snapshot.
	BlockSize = SlotBaseline + mpr121.ElectrodeCount
)

// RegisterWriter is the part of modbus.Client used by a Mirror.
type RegisterWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

var _ RegisterWriter = modbus.Client(nil)

// Snapshot is the device state mirrored in one write.
type Snapshot struct {
	Status   mpr121.Report
	Fault    mpr121.Fault
	Filtered [mpr121.ElectrodeCount]uint16
	Baseline [mpr121.ElectrodeCount]uint16
}

// Capture copies the last data read by dev. It does not touch the bus.
func Capture(dev *mpr121.Device) Snapshot {
	s := Snapshot{
		Status: dev.Status(),
		Fault:  dev.Faults().Primary(),
	}
	for e := uint8(0); e < mpr121.ElectrodeCount; e++ {
		// only fails for an uninitialized device, which leaves the zero value
		s.Filtered[e], _ = dev.Filtered(e)
		s.Baseline[e], _ = dev.Baseline(e)
	}
	return s
}

// Registers returns the block for s.
func (s Snapshot) Registers() []uint16 {
	regs := make([]uint16, BlockSize)
	regs[SlotStatus] = uint16(s.Status)
	regs[SlotFault] = uint16(s.Fault)
	copy(regs[SlotFiltered:], s.Filtered[:])
	copy(regs[SlotBaseline:], s.Baseline[:])
	return regs
}

// Mirror writes snapshots to a fixed address. Unchanged snapshots are not written again.
type Mirror struct {
	w    RegisterWriter
	base uint16

	last    Snapshot
	written bool
}

func New(w RegisterWriter, base uint16) *Mirror {
	return &Mirror{w: w, base: base}
}

// Write sends s as one write multiple registers request.
func (m *Mirror) Write(s Snapshot) error {
	if m.written && s == m.last {
		return nil
	}
	if _, err := m.w.WriteMultipleRegisters(m.base, BlockSize, packRegisters(s.Registers())); err != nil {
		return err
	}
	m.last, m.written = s, true
	return nil
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

// Config is used by Dial.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// Client is a Modbus TCP connection.
type Client struct {
	handler *modbus.TCPClientHandler
	modbus.Client
}

// Dial connects to a Modbus TCP server.
func Dial(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbusmirror: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		Client:  modbus.NewClient(h),
	}, nil
}

func (c *Client) Close() error {
	return c.handler.Close()
}
