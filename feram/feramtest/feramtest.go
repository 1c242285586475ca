// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package feramtest implements an in-memory I²C FeRAM to test code talking
// to the chip without hardware.
package feramtest

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// Size is the capacity of the simulated chip.
const Size = 2048

// ErrNack is returned for a transaction addressed to another device.
var ErrNack = errors.New("feramtest: no acknowledge")

// Chip is a 16 kbit FeRAM answering on the 8 slave addresses starting at
// Addr. It implements i2c.Bus.
//
// Writes are dropped while WP reads high, as the real chip does.
type Chip struct {
	sync.Mutex
	// Addr is the 7-bit address of page 0. Its 3 low bits are ignored.
	Addr uint16
	// Mem is the content of the chip.
	Mem [Size]byte
	// WP is the write protect line of the chip. Nil means tied low.
	WP gpio.PinIn
	// Err, when set, is returned by every transaction, which then has no
	// effect.
	Err error
	// Ops records every transaction that was acknowledged.
	Ops []i2ctest.IO
}

func (c *Chip) String() string {
	return fmt.Sprintf("feramtest{0x%02x}", c.Addr)
}

// Tx implements i2c.Bus.
func (c *Chip) Tx(addr uint16, w, r []byte) error {
	c.Lock()
	defer c.Unlock()
	if c.Err != nil {
		return c.Err
	}
	if addr&^7 != c.Addr&^7 {
		return ErrNack
	}
	if len(w) == 0 {
		return errors.New("feramtest: missing word address")
	}
	c.Ops = append(c.Ops, i2ctest.IO{
		Addr: addr,
		W:    append([]byte(nil), w...),
		R:    nil,
	})
	off := int(addr&7)<<8 | int(w[0])
	if len(r) != 0 {
		for i := range r {
			r[i] = c.Mem[(off+i)%Size]
		}
		c.Ops[len(c.Ops)-1].R = append([]byte(nil), r...)
		return nil
	}
	if c.WP != nil && c.WP.Read() == gpio.High {
		return nil
	}
	for i, b := range w[1:] {
		c.Mem[(off+i)%Size] = b
	}
	return nil
}

// SetSpeed implements i2c.Bus.
func (c *Chip) SetSpeed(f physic.Frequency) error {
	return nil
}

// Close implements i2c.BusCloser.
func (c *Chip) Close() error {
	return nil
}

var _ i2c.BusCloser = &Chip{}
