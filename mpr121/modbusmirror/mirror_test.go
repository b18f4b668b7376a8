package modbusmirror

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/touch/mpr121"
	"github.com/ajanata/touch/mpr121/mpr121test"
)

type request struct {
	Address, Quantity uint16
	Value             []byte
}

type fakeWriter struct {
	reqs []request
	err  error
}

func (f *fakeWriter) WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error) {
	f.reqs = append(f.reqs, request{address, quantity, value})
	if f.err != nil {
		return nil, f.err
	}
	return []byte{byte(address >> 8), byte(address), byte(quantity >> 8), byte(quantity)}, nil
}

func TestLayout(t *testing.T) {
	c := qt.New(t)
	c.Assert(SlotBaseline, qt.Equals, 15)
	c.Assert(BlockSize, qt.Equals, 28)
}

func TestCapture(t *testing.T) {
	c := qt.New(t)
	dev, bus, err := mpr121test.NewDevice()
	c.Assert(err, qt.IsNil)
	bus.SetTouched(1<<1 | 1<<9)
	bus.SetFiltered(1, 0x2A5)
	bus.SetFiltered(12, 0x3FF)
	bus.SetBaseline(1, 0x2C0)
	c.Assert(dev.UpdateAll(), qt.IsNil)

	s := Capture(dev)
	c.Assert(s.Status, qt.Equals, mpr121.Report(0x0202))
	c.Assert(s.Fault, qt.Equals, mpr121.NoError)
	c.Assert(s.Filtered[1], qt.Equals, uint16(0x2A5))
	c.Assert(s.Filtered[12], qt.Equals, uint16(0x3FF))
	c.Assert(s.Baseline[1], qt.Equals, uint16(0x2C0))

	c.Assert(Capture(mpr121.New(bus)), qt.Equals, Snapshot{Fault: mpr121.NotInitialized})
}

func TestWrite(t *testing.T) {
	c := qt.New(t)
	w := &fakeWriter{}
	m := New(w, 100)

	s := Snapshot{Status: 0x1001, Fault: mpr121.Overcurrent}
	s.Filtered[0] = 0x0123
	s.Baseline[12] = 0x03FC
	c.Assert(m.Write(s), qt.IsNil)
	c.Assert(w.reqs, qt.HasLen, 1)

	req := w.reqs[0]
	c.Assert(req.Address, qt.Equals, uint16(100))
	c.Assert(req.Quantity, qt.Equals, uint16(BlockSize))
	c.Assert(req.Value, qt.HasLen, 2*BlockSize)
	c.Assert(req.Value[0:2], qt.DeepEquals, []byte{0x10, 0x01})
	c.Assert(req.Value[2:4], qt.DeepEquals, []byte{0x00, byte(mpr121.Overcurrent)})
	c.Assert(req.Value[4:6], qt.DeepEquals, []byte{0x01, 0x23})
	c.Assert(req.Value[54:56], qt.DeepEquals, []byte{0x03, 0xFC})

	// unchanged
	c.Assert(m.Write(s), qt.IsNil)
	c.Assert(w.reqs, qt.HasLen, 1)

	s.Status = 0
	c.Assert(m.Write(s), qt.IsNil)
	c.Assert(w.reqs, qt.HasLen, 2)
}

func TestWriteErrorRetries(t *testing.T) {
	c := qt.New(t)
	w := &fakeWriter{err: errors.New("modbus: exception '2' (illegal data address)")}
	m := New(w, 0)

	c.Assert(m.Write(Snapshot{}), qt.ErrorMatches, `modbus: exception .*`)
	w.err = nil
	c.Assert(m.Write(Snapshot{}), qt.IsNil)
	c.Assert(w.reqs, qt.HasLen, 2)
}

func TestDialRequiresEndpoint(t *testing.T) {
	c := qt.New(t)
	_, err := Dial(Config{})
	c.Assert(err, qt.ErrorMatches, `modbusmirror: endpoint required`)
}
