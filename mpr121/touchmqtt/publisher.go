// Package touchmqtt publishes MPR121 touch events, touch status and faults over MQTT.
//
// Topics, below a configurable prefix:
//
//	<prefix>/electrode/<n>  "touch" or "release"
//	<prefix>/status         touch bitmap as four hex digits, retained
//	<prefix>/fault          name of the primary fault, retained
//	<prefix>/online         "true", retained; use WillTopic for the "false" will
package touchmqtt // import "github.com/ajanata/touch/mpr121/touchmqtt"

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/ajanata/touch/mpr121"
	"github.com/ajanata/touch/mpr121/touchevent"
)

// Client is the part of mqtt.Client used by a Publisher.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

var _ Client = mqtt.Client(nil)

// ErrTimeout is returned when the broker does not acknowledge a message in time.
var ErrTimeout = errors.New("touchmqtt: publish timed out")

// Config is used by New. Prefix is required.
type Config struct {
	Prefix string
	QoS    byte
	// Timeout bounds the wait for each publish. Defaults to 5 seconds.
	Timeout time.Duration
}

// Publisher sends device state to an MQTT broker. Status and fault messages are only sent
// when they change.
type Publisher struct {
	client  Client
	prefix  string
	qos     byte
	timeout time.Duration

	status     mpr121.Report
	statusSent bool
	fault      mpr121.Fault
	faultSent  bool
}

func New(client Client, c Config) *Publisher {
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
	return &Publisher{
		client:  client,
		prefix:  c.Prefix,
		qos:     c.QoS,
		timeout: c.Timeout,
	}
}

// WillTopic returns the topic a client should set as its will, with payload "false".
func WillTopic(prefix string) string {
	return prefix + "/online"
}

// Online announces the publisher.
func (p *Publisher) Online() error {
	return p.publish(WillTopic(p.prefix), true, "true")
}

// Events publishes one message per event. It stops at the first failure.
func (p *Publisher) Events(events []touchevent.Event) error {
	for _, e := range events {
		topic := p.prefix + "/electrode/" + strconv.Itoa(int(e.Electrode))
		if err := p.publish(topic, false, e.Kind.String()); err != nil {
			return err
		}
	}
	return nil
}

// Status publishes the touch bitmap if it differs from the last one sent.
func (p *Publisher) Status(r mpr121.Report) error {
	if p.statusSent && r == p.status {
		return nil
	}
	if err := p.publish(p.prefix+"/status", true, fmt.Sprintf("%04x", uint16(r))); err != nil {
		return err
	}
	p.status, p.statusSent = r, true
	return nil
}

// Fault publishes the fault name if it differs from the last one sent.
func (p *Publisher) Fault(f mpr121.Fault) error {
	if p.faultSent && f == p.fault {
		return nil
	}
	if err := p.publish(p.prefix+"/fault", true, f.String()); err != nil {
		return err
	}
	p.fault, p.faultSent = f, true
	return nil
}

func (p *Publisher) publish(topic string, retained bool, payload string) error {
	tok := p.client.Publish(topic, p.qos, retained, payload)
	if !tok.WaitTimeout(p.timeout) {
		return fmt.Errorf("%w: %s", ErrTimeout, topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("touchmqtt: publish %s: %w", topic, err)
	}
	return nil
}
