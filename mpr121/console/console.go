// Package console implements a line-oriented command shell for inspecting and configuring
// an MPR121, for use over a serial port or a terminal.
//
// Lines are split like a POSIX shell, so comments and quoting work as expected. Numbers
// may be written in decimal or with a 0x prefix.
package console // import "github.com/ajanata/touch/mpr121/console"

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"github.com/ajanata/touch/mpr121"
)

// ErrUsage is returned for a command called with the wrong arguments.
var ErrUsage = errors.New("usage")

type command struct {
	args string
	help string
	run  func(c *Console, args []string) error
}

// commands is set in init as help refers to it.
var commands map[string]command

func init() {
	commands = map[string]command{
		"help":       {"", "list commands", (*Console).help},
		"status":     {"", "show device state and touch status", (*Console).status},
		"data":       {"", "read and show touch, filtered and baseline data", (*Console).data},
		"fault":      {"", "read and show the primary fault", (*Console).fault},
		"clear":      {"", "clear fault flags", (*Console).clear},
		"run":        {"", "enable electrodes", (*Console).run},
		"stop":       {"", "disable electrodes", (*Console).stop},
		"reset":      {"", "soft reset and reapply settings", (*Console).reset},
		"touch":      {"<value> [electrode]", "set touch threshold", (*Console).touch},
		"release":    {"<value> [electrode]", "set release threshold", (*Console).release},
		"thresholds": {"<electrode>", "show thresholds", (*Console).thresholds},
		"prox":       {"<off|2|4|12>", "set proximity mode", (*Console).prox},
		"gpio":       {"<count>", "reserve the top electrodes for GPIO", (*Console).gpio},
		"pinmode":    {"<electrode> <mode>", "set GPIO mode: " + strings.Join(pinModeNames(), ", "), (*Console).pinmode},
		"write":      {"<electrode> <0|1>", "set GPIO output", (*Console).write},
		"toggle":     {"<electrode>", "toggle GPIO output", (*Console).toggle},
		"read":       {"<electrode>", "read GPIO input", (*Console).read},
		"pwm":        {"<electrode> <value>", "set PWM duty, 0-255", (*Console).pwm},
		"period":     {"<ms>", "set sample period: 1, 2, 4 ... 128", (*Console).period},
	}
}

var pinModes = map[string]mpr121.PinMode{
	"input":    mpr121.PinInput,
	"pulldown": mpr121.PinInputPulldown,
	"pullup":   mpr121.PinInputPullup,
	"output":   mpr121.PinOutput,
	"highside": mpr121.PinOutputHighSide,
	"lowside":  mpr121.PinOutputLowSide,
}

var proximityModes = map[string]mpr121.ProximityMode{
	"off": mpr121.ProximityModeOff,
	"2":   mpr121.ProximityModeTwo,
	"4":   mpr121.ProximityModeFour,
	"12":  mpr121.ProximityModeTwelve,
}

var samplePeriods = map[uint64]mpr121.SamplePeriod{
	1:   mpr121.SamplePeriod1ms,
	2:   mpr121.SamplePeriod2ms,
	4:   mpr121.SamplePeriod4ms,
	8:   mpr121.SamplePeriod8ms,
	16:  mpr121.SamplePeriod16ms,
	32:  mpr121.SamplePeriod32ms,
	64:  mpr121.SamplePeriod64ms,
	128: mpr121.SamplePeriod128ms,
}

func pinModeNames() []string {
	names := make([]string, 0, len(pinModes))
	for name := range pinModes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Console executes commands against one device and writes their output to out. Like the
// device, it must be used from a single goroutine.
type Console struct {
	dev      *mpr121.Device
	out      io.Writer
	settings mpr121.Settings
}

// New returns a console for dev. settings are reapplied by the reset command.
func New(dev *mpr121.Device, out io.Writer, settings mpr121.Settings) *Console {
	return &Console{dev: dev, out: out, settings: settings}
}

// Exec runs one command line. Blank lines and comments do nothing.
func (c *Console) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	if err := cmd.run(c, args[1:]); err != nil {
		if errors.Is(err, ErrUsage) {
			return fmt.Errorf("%w: %s %s", ErrUsage, args[0], cmd.args)
		}
		return err
	}
	return nil
}

// Serve executes lines from r until it is exhausted. Command errors are written to out
// and do not stop Serve.
func (c *Console) Serve(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := c.Exec(scanner.Text()); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (c *Console) help(args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		fmt.Fprintf(c.out, "%-30s %s\n", strings.TrimSpace(name+" "+cmd.args), cmd.help)
	}
	return nil
}

func (c *Console) status(args []string) error {
	fmt.Fprintf(c.out, "address %#02x initialized %t running %t\n", c.dev.Address(), c.dev.Initialized(), c.dev.Running())
	fmt.Fprintf(c.out, "touched %013b (%d)\n", uint16(c.dev.Status()), c.dev.TouchCount())
	if f := c.dev.Faults(); f.Any() {
		fmt.Fprintf(c.out, "fault %s\n", f.Primary().String())
	}
	return nil
}

func (c *Console) data(args []string) error {
	if err := c.dev.UpdateAll(); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "ele touched filtered baseline delta")
	for e := uint8(0); e < mpr121.ElectrodeCount; e++ {
		filtered, _ := c.dev.Filtered(e)
		baseline, _ := c.dev.Baseline(e)
		fmt.Fprintf(c.out, "%3d %7t %8d %8d %5d\n", e, c.dev.Touched(e), filtered, baseline, int(baseline)-int(filtered))
	}
	return nil
}

func (c *Console) fault(args []string) error {
	fmt.Fprintln(c.out, c.dev.Fault().String())
	return nil
}

func (c *Console) clear(args []string) error {
	c.dev.ClearFaults()
	return nil
}

func (c *Console) run(args []string) error {
	return c.dev.Run()
}

func (c *Console) stop(args []string) error {
	return c.dev.Stop()
}

func (c *Console) reset(args []string) error {
	if err := c.dev.Reset(); err != nil {
		return err
	}
	return c.dev.ApplySettings(c.settings)
}

func (c *Console) touch(args []string) error {
	return c.setThreshold(args, c.dev.SetTouchThresholds, c.dev.SetTouchThreshold)
}

func (c *Console) release(args []string) error {
	return c.setThreshold(args, c.dev.SetReleaseThresholds, c.dev.SetReleaseThreshold)
}

func (c *Console) setThreshold(args []string, all func(uint8) error, one func(uint8, uint8) error) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	v, err := parseUint8(args[0])
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return all(v)
	}
	e, err := parseUint8(args[1])
	if err != nil {
		return err
	}
	return one(e, v)
}

func (c *Console) thresholds(args []string) error {
	e, err := oneUint8(args)
	if err != nil {
		return err
	}
	touch, err := c.dev.TouchThreshold(e)
	if err != nil {
		return err
	}
	release, err := c.dev.ReleaseThreshold(e)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "electrode %d touch %d release %d\n", e, touch, release)
	return nil
}

func (c *Console) prox(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	m, ok := proximityModes[args[0]]
	if !ok {
		return ErrUsage
	}
	return c.dev.SetProximityMode(m)
}

func (c *Console) gpio(args []string) error {
	n, err := oneUint8(args)
	if err != nil {
		return err
	}
	return c.dev.SetDigitalPinCount(n)
}

func (c *Console) pinmode(args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	e, err := parseUint8(args[0])
	if err != nil {
		return err
	}
	m, ok := pinModes[args[1]]
	if !ok {
		return fmt.Errorf("unknown pin mode %q", args[1])
	}
	return c.dev.SetPinMode(e, m)
}

func (c *Console) write(args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	e, err := parseUint8(args[0])
	if err != nil {
		return err
	}
	high, err := strconv.ParseBool(args[1])
	if err != nil {
		return ErrUsage
	}
	return c.dev.DigitalWrite(e, high)
}

func (c *Console) toggle(args []string) error {
	e, err := oneUint8(args)
	if err != nil {
		return err
	}
	return c.dev.DigitalToggle(e)
}

func (c *Console) read(args []string) error {
	e, err := oneUint8(args)
	if err != nil {
		return err
	}
	high, err := c.dev.DigitalRead(e)
	if err != nil {
		return err
	}
	if high {
		fmt.Fprintln(c.out, 1)
	} else {
		fmt.Fprintln(c.out, 0)
	}
	return nil
}

func (c *Console) pwm(args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	e, err := parseUint8(args[0])
	if err != nil {
		return err
	}
	v, err := parseUint8(args[1])
	if err != nil {
		return err
	}
	return c.dev.AnalogWrite(e, v)
}

func (c *Console) period(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	ms, err := strconv.ParseUint(args[0], 0, 8)
	if err != nil {
		return ErrUsage
	}
	p, ok := samplePeriods[ms]
	if !ok {
		return ErrUsage
	}
	return c.dev.SetSamplePeriod(p)
}

func oneUint8(args []string) (uint8, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	return parseUint8(args[0])
}

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("bad number %q", s)
	}
	return uint8(v), nil
}
