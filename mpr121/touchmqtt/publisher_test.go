package touchmqtt

import (
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	qt "github.com/frankban/quicktest"

	"github.com/ajanata/touch/mpr121"
	"github.com/ajanata/touch/mpr121/touchevent"
)

type message struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  string
}

type fakeClient struct {
	sent []message
	err  error
	hang bool
}

func (f *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.sent = append(f.sent, message{topic, qos, retained, payload.(string)})
	return &fakeToken{err: f.err, hang: f.hang}
}

type fakeToken struct {
	mqtt.Token
	err  error
	hang bool
}

func (t *fakeToken) Wait() bool                     { return !t.hang }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.hang }
func (t *fakeToken) Error() error                   { return t.err }

func TestEvents(t *testing.T) {
	c := qt.New(t)
	client := &fakeClient{}
	p := New(client, Config{Prefix: "home/pad", QoS: 1})

	err := p.Events([]touchevent.Event{
		{Electrode: 2, Kind: touchevent.Touch},
		{Electrode: 11, Kind: touchevent.Release},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(client.sent, qt.DeepEquals, []message{
		{"home/pad/electrode/2", 1, false, "touch"},
		{"home/pad/electrode/11", 1, false, "release"},
	})
}

func TestStatusOnlyOnChange(t *testing.T) {
	c := qt.New(t)
	client := &fakeClient{}
	p := New(client, Config{Prefix: "pad"})

	c.Assert(p.Status(0), qt.IsNil)
	c.Assert(p.Status(0), qt.IsNil)
	c.Assert(p.Status(0x1003), qt.IsNil)
	c.Assert(client.sent, qt.DeepEquals, []message{
		{"pad/status", 0, true, "0000"},
		{"pad/status", 0, true, "1003"},
	})
}

func TestFaultOnlyOnChange(t *testing.T) {
	c := qt.New(t)
	client := &fakeClient{}
	p := New(client, Config{Prefix: "pad"})

	c.Assert(p.Fault(mpr121.NoError), qt.IsNil)
	c.Assert(p.Fault(mpr121.Overcurrent), qt.IsNil)
	c.Assert(p.Fault(mpr121.Overcurrent), qt.IsNil)
	c.Assert(client.sent, qt.DeepEquals, []message{
		{"pad/fault", 0, true, "no error"},
		{"pad/fault", 0, true, "overcurrent"},
	})
}

func TestOnline(t *testing.T) {
	c := qt.New(t)
	client := &fakeClient{}
	c.Assert(New(client, Config{Prefix: "pad"}).Online(), qt.IsNil)
	c.Assert(client.sent, qt.DeepEquals, []message{{"pad/online", 0, true, "true"}})
	c.Assert(WillTopic("pad"), qt.Equals, "pad/online")
}

func TestPublishErrors(t *testing.T) {
	c := qt.New(t)
	client := &fakeClient{hang: true}
	p := New(client, Config{Prefix: "pad", Timeout: time.Millisecond})

	err := p.Status(1)
	c.Assert(err, qt.ErrorMatches, `touchmqtt: publish timed out: pad/status`)
	c.Assert(errors.Is(err, ErrTimeout), qt.Equals, true)

	// a failed status is retried on the next call
	client.hang = false
	client.err = errors.New("not connected")
	c.Assert(p.Status(1), qt.ErrorMatches, `touchmqtt: publish pad/status: not connected`)
	client.err = nil
	c.Assert(p.Status(1), qt.IsNil)
	c.Assert(client.sent, qt.HasLen, 3)

	client.err = errors.New("not connected")
	err = p.Events([]touchevent.Event{{Electrode: 0, Kind: touchevent.Touch}, {Electrode: 1, Kind: touchevent.Touch}})
	c.Assert(err, qt.ErrorMatches, `touchmqtt: publish pad/electrode/0: not connected`)
	c.Assert(client.sent, qt.HasLen, 4)
}
