// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package feramtest

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestChip(t *testing.T) {
	c := &Chip{Addr: 0x50}
	if err := c.Tx(0x53, []byte{0x10, 1, 2, 3}, nil); err != nil {
		t.Fatal(err)
	}
	if c.Mem[0x310] != 1 || c.Mem[0x312] != 3 {
		t.Errorf("page 3 not written: % x", c.Mem[0x310:0x313])
	}
	r := make([]byte, 3)
	if err := c.Tx(0x53, []byte{0x10}, r); err != nil {
		t.Fatal(err)
	}
	if r[0] != 1 || r[2] != 3 {
		t.Errorf("read % x", r)
	}
	if err := c.Tx(0x60, []byte{0}, r); err != ErrNack {
		t.Errorf("Tx() to another device = %v", err)
	}
	if err := c.Tx(0x50, nil, r); err == nil {
		t.Error("expected error without word address")
	}
	if len(c.Ops) != 2 {
		t.Errorf("recorded %d transactions", len(c.Ops))
	}
}

func TestChipWrap(t *testing.T) {
	c := &Chip{Addr: 0x50}
	if err := c.Tx(0x57, []byte{0xFF, 1, 2}, nil); err != nil {
		t.Fatal(err)
	}
	if c.Mem[Size-1] != 1 || c.Mem[0] != 2 {
		t.Error("address did not roll over at the end of the array")
	}
}

func TestChipWriteProtect(t *testing.T) {
	wp := &gpiotest.Pin{N: "WP", L: gpio.High}
	c := &Chip{Addr: 0x50, WP: wp}
	if err := c.Tx(0x50, []byte{0x00, 0xAA}, nil); err != nil {
		t.Fatal(err)
	}
	if c.Mem[0] != 0 {
		t.Error("write accepted while protected")
	}
	if err := wp.Out(gpio.Low); err != nil {
		t.Fatal(err)
	}
	if err := c.Tx(0x50, []byte{0x00, 0xAA}, nil); err != nil {
		t.Fatal(err)
	}
	if c.Mem[0] != 0xAA {
		t.Error("write dropped while unprotected")
	}
}

func TestChipErr(t *testing.T) {
	e := errors.New("stuck bus")
	c := &Chip{Addr: 0x50, Err: e}
	if err := c.Tx(0x50, []byte{0x00, 0xAA}, nil); err != e {
		t.Errorf("Tx() = %v", err)
	}
	if c.Mem[0] != 0 || len(c.Ops) != 0 {
		t.Error("failed transaction had an effect")
	}
}
