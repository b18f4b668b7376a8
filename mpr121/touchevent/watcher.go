// Package touchevent turns MPR121 touch status changes into discrete events.
package touchevent // import "github.com/ajanata/touch/mpr121/touchevent"

import (
	"time"

	"github.com/ajanata/touch/mpr121"
)

// Kind is the direction of a touch status change.
type Kind uint8

const (
	Touch Kind = iota + 1
	Release
)

func (k Kind) String() string {
	switch k {
	case Touch:
		return "touch"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Event is a change of one electrode's touch status.
type Event struct {
	Electrode uint8
	Kind      Kind
	At        time.Time
}

// Watcher polls a device for touch status changes. It shares the device with its caller
// and must be polled from the goroutine that owns the device.
type Watcher struct {
	dev   *mpr121.Device
	reads int
}

func New(dev *mpr121.Device) *Watcher {
	return &Watcher{dev: dev}
}

// Poll refreshes the touch status and returns one event per electrode that changed, in
// electrode order. When the device has an interrupt pin the status is only read if the
// pin says it changed.
func (w *Watcher) Poll(now time.Time) ([]Event, error) {
	if w.dev.HasInterruptPin() && !w.dev.TouchStatusChanged() {
		return nil, nil
	}
	if err := w.dev.UpdateTouchData(); err != nil {
		return nil, err
	}
	w.reads++

	var events []Event
	for e := uint8(0); e < mpr121.ElectrodeCount; e++ {
		switch {
		case w.dev.IsNewTouch(e):
			events = append(events, Event{Electrode: e, Kind: Touch, At: now})
		case w.dev.IsNewRelease(e):
			events = append(events, Event{Electrode: e, Kind: Release, At: now})
		}
	}
	return events, nil
}

// Reads returns how many times Poll has read the touch status.
func (w *Watcher) Reads() int {
	return w.reads
}
