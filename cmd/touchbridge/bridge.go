package main

import (
	"bufio"
	"context"
	"io"
	"log"
	"time"

	"github.com/ajanata/touch/mpr121"
	"github.com/ajanata/touch/mpr121/modbusmirror"
	"github.com/ajanata/touch/mpr121/touchevent"
)

type eventPublisher interface {
	Events([]touchevent.Event) error
	Status(mpr121.Report) error
	Fault(mpr121.Fault) error
}

type snapshotWriter interface {
	Write(modbusmirror.Snapshot) error
}

// bridge owns the device. All of its methods run on the polling goroutine.
type bridge struct {
	dev     *mpr121.Device
	watcher *touchevent.Watcher
	pub     eventPublisher // may be nil
	mirror  snapshotWriter // may be nil

	fault    mpr121.Fault
	failures map[string]string
}

func newBridge(dev *mpr121.Device, pub eventPublisher, mirror snapshotWriter) *bridge {
	return &bridge{
		dev:      dev,
		watcher:  touchevent.New(dev),
		pub:      pub,
		mirror:   mirror,
		failures: map[string]string{},
	}
}

// pollTouch forwards touch events and the touch status.
func (b *bridge) pollTouch(now time.Time) {
	events, err := b.watcher.Poll(now)
	if b.report("touch read", err) != nil {
		return
	}
	if b.pub == nil {
		return
	}
	b.report("mqtt events", b.pub.Events(events))
	b.report("mqtt status", b.pub.Status(b.dev.Status()))
}

// pollData refreshes electrode data and faults, and mirrors them.
func (b *bridge) pollData() {
	err := b.dev.UpdateBaselineData()
	if err == nil {
		err = b.dev.UpdateFilteredData()
	}
	b.report("data read", err)

	f := b.dev.Fault()
	if f != b.fault {
		log.Printf("fault (addr=%#02x): %s", b.dev.Address(), f.String())
		b.fault = f
	}
	if b.pub != nil {
		b.report("mqtt fault", b.pub.Fault(f))
	}
	if b.mirror != nil {
		b.report("modbus write", b.mirror.Write(modbusmirror.Capture(b.dev)))
	}
}

// report logs err when it differs from the last error of the same kind, and a recovery
// once it clears. It returns err.
func (b *bridge) report(what string, err error) error {
	last, failing := b.failures[what]
	switch {
	case err == nil && failing:
		log.Printf("%s recovered (addr=%#02x)", what, b.dev.Address())
		delete(b.failures, what)
	case err != nil && err.Error() != last:
		log.Printf("%s failed (addr=%#02x): %v", what, b.dev.Address(), err)
		b.failures[what] = err.Error()
	}
	return err
}

// driverLogger passes driver diagnostics to the standard logger.
type driverLogger struct{}

func (driverLogger) Println(s string) error {
	log.Println(s)
	return nil
}

// readLines sends each line read from r until it fails or ctx is done. Lines are
// executed by the polling goroutine, which owns the device.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			log.Printf("console read failed: %v", err)
		}
	}()
	return lines
}
