//go:build linux

// Package i2cdev implements drivers.I2C on top of the Linux i2c-dev interface, so the
// drivers in this module can be used from a Raspberry Pi or any other Linux board.
//
// Transactions are issued with the I2C_RDWR ioctl, which keeps a write followed by a read
// in one transfer with a repeated start, as register reads require.
package i2cdev // import "github.com/ajanata/touch/i2cdev"

import (
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*Bus)(nil)

// from linux/i2c-dev.h and linux/i2c.h
const (
	ioctlFuncs = 0x0705
	ioctlRDWR  = 0x0707

	funcI2C  = 0x00000001
	flagRead = 0x0001

	// i2c_msg.len is 16 bits
	maxMessage = 0xFFFF
)

// ErrTooLong is returned for a transfer that does not fit in one i2c_msg.
var ErrTooLong = errors.New("transfer longer than 65535 bytes")

// struct i2c_msg
type message struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

// struct i2c_rdwr_ioctl_data
type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

// Bus is an open i2c-dev character device such as /dev/i2c-1.
type Bus struct {
	fd   int
	path string
}

// Open opens the adapter at path and checks that it supports plain I2C transfers.
func Open(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: %s: %w", path, err)
	}
	b := &Bus{fd: fd, path: path}

	var funcs uint
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), ioctlFuncs, uintptr(unsafe.Pointer(&funcs)))
	if errno != 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("i2cdev: %s: %w", path, errno)
	}
	if funcs&funcI2C == 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("i2cdev: %s: adapter does not support I2C transfers", path)
	}
	return b, nil
}

// Tx writes w and then reads into r from the device at addr. Either may be empty.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	if len(w) > maxMessage || len(r) > maxMessage {
		return fmt.Errorf("i2cdev: %s addr %#02x: %w", b.path, addr, ErrTooLong)
	}

	var msgs [2]message
	n := 0
	if len(w) > 0 {
		msgs[n] = message{addr: addr, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))}
		n++
	}
	if len(r) > 0 {
		msgs[n] = message{addr: addr, flags: flagRead, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))}
		n++
	}
	if n == 0 {
		return nil
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(n)}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(b.fd), ioctlRDWR, uintptr(unsafe.Pointer(&data)))
	runtime.KeepAlive(w)
	runtime.KeepAlive(r)
	runtime.KeepAlive(&msgs)
	if errno != 0 {
		return fmt.Errorf("i2cdev: %s addr %#02x: %w", b.path, addr, errno)
	}
	return nil
}

// Close releases the device.
func (b *Bus) Close() error {
	return unix.Close(b.fd)
}
