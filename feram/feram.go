// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package feram

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

const (
	// DefaultAddress is the 7-bit address of page 0.
	DefaultAddress uint16 = 0x50
	// Size is the capacity of the chip in bytes.
	Size = 2048
	// PageSize is the number of bytes reachable through one slave address.
	PageSize = 256

	writeAllowed   = gpio.Low
	writeForbidden = gpio.High
)

var (
	errAddress = errors.New("feram: invalid 7-bit I²C address")
	errOffset  = errors.New("feram: negative offset")
	errLength  = errors.New("feram: negative length")
)

// Opts holds the configuration options for the device.
type Opts struct {
	// WriteProtect is the output driving the WP pin of the chip. Leave nil
	// when the pin is hardwired.
	WriteProtect gpio.PinOut
	// Layout is the offset of every configuration field. The zero value
	// selects DefaultLayout.
	Layout Layout
}

// DefaultOpts is the configuration used when NewI2C receives nil options.
var DefaultOpts = Opts{Layout: DefaultLayout}

// Dev is a handle to an I²C FeRAM.
//
// The methods of a Dev are serialized; a chip shared by several Dev values
// must be serialized by the caller.
type Dev struct {
	bus    i2c.Bus
	addr   uint16
	wp     gpio.PinOut
	layout Layout
	mu     sync.Mutex
}

// NewI2C returns a Dev for the FeRAM at the 7-bit base address addr. The
// page bits of addr are ignored, DefaultAddress is the usual value. opts can
// be nil.
//
// When a write protect line is configured it is driven high, so the chip
// only accepts writes issued through the Dev.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if addr > 0x7f {
		return nil, errAddress
	}
	layout := opts.Layout
	if layout == (Layout{}) {
		layout = DefaultLayout
	}
	if err := layout.validate(); err != nil {
		return nil, err
	}
	d := &Dev{bus: b, addr: addr, wp: opts.WriteProtect, layout: layout}
	if err := d.protect(writeForbidden); err != nil {
		return nil, err
	}
	return d, nil
}

// PageAddress returns the 8-bit (read/write bit included) slave address
// selecting the page that holds offset. The page is bits 8-10 of offset and
// replaces bits 1-3 of base.
func PageAddress(base byte, offset uint16) byte {
	return (base & 0xF0) | byte((offset>>8)&0x7)<<1
}

// Layout returns the field layout used by the device.
func (d *Dev) Layout() Layout {
	return d.layout
}

func (d *Dev) String() string {
	return fmt.Sprintf("FeRAM{%s, 0x%02x}", d.bus, d.addr)
}

// Halt implements conn.Resource. It re-asserts the write protect line.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.protect(writeForbidden)
}

// Write stores b at offset in a single bus transaction. The write protect
// line is released for the duration of the transaction and asserted again
// afterwards, whether or not the transaction succeeded.
//
// b must not extend past the end of the page holding offset; the chip wraps
// the address within the page. Use WriteAt for arbitrary spans.
//
// The error of the bus is returned as is.
func (d *Dev) Write(offset uint16, b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.write(offset, b)
}

// Read fills b from offset. The address byte is written and the data read
// back in one combined transaction with a repeated start. b is left
// untouched when the transaction fails.
//
// The same page restriction as Write applies; use ReadAt for arbitrary
// spans.
func (d *Dev) Read(offset uint16, b []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read(offset, b)
}

// ReadAt implements io.ReaderAt over the whole chip. Transfers crossing a
// page boundary are split in one transaction per page.
func (d *Dev) ReadAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.span(p, off, d.read)
}

// WriteAt implements io.WriterAt over the whole chip. Transfers crossing a
// page boundary are split in one transaction per page.
func (d *Dev) WriteAt(p []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.span(p, off, d.write)
}

// Erase clears n bytes starting at off.
func (d *Dev) Erase(off int64, n int) error {
	if n < 0 {
		return errLength
	}
	_, err := d.WriteAt(make([]byte, n), off)
	return err
}

func (d *Dev) pageAddr(offset uint16) uint16 {
	return uint16(PageAddress(byte(d.addr<<1), offset) >> 1)
}

func (d *Dev) write(offset uint16, b []byte) error {
	w := make([]byte, len(b)+1)
	w[0] = byte(offset)
	copy(w[1:], b)

	if err := d.protect(writeAllowed); err != nil {
		return err
	}
	err := d.bus.Tx(d.pageAddr(offset), w, nil)
	if perr := d.protect(writeForbidden); err == nil {
		err = perr
	}
	return err
}

func (d *Dev) read(offset uint16, b []byte) error {
	r := make([]byte, len(b))
	if err := d.bus.Tx(d.pageAddr(offset), []byte{byte(offset)}, r); err != nil {
		return err
	}
	copy(b, r)
	return nil
}

// span runs op over p in chunks that never cross a page boundary.
func (d *Dev) span(p []byte, off int64, op func(uint16, []byte) error) (int, error) {
	if off < 0 {
		return 0, errOffset
	}
	if off >= Size && len(p) != 0 {
		return 0, io.EOF
	}
	n := 0
	for n < len(p) && off < Size {
		chunk := p[n:]
		if room := PageSize - off%PageSize; int64(len(chunk)) > room {
			chunk = chunk[:room]
		}
		if err := op(uint16(off), chunk); err != nil {
			return n, err
		}
		n += len(chunk)
		off += int64(len(chunk))
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (d *Dev) protect(l gpio.Level) error {
	if d.wp == nil {
		return nil
	}
	if err := d.wp.Out(l); err != nil {
		return fmt.Errorf("feram: write protect: %w", err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ io.ReaderAt = &Dev{}
var _ io.WriterAt = &Dev{}
