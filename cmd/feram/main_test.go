// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/netferam/feram"
	"github.com/GermanBionicSystems/netferam/feram/feramtest"
)

var sample = feram.NetConfig{
	Addressing:  1,
	MAC:         "02:00:5e:10:00:01",
	IP:          "192.168.1.1",
	Mask:        "255.255.255.0",
	Gateway:     "192.168.1.254",
	Attenuation: 6.5,
}

// failingChip fails every transaction after the first ok ones.
type failingChip struct {
	*feramtest.Chip
	ok int
}

func (c *failingChip) Tx(addr uint16, w, r []byte) error {
	if c.ok == 0 {
		return errBus
	}
	c.ok--
	return c.Chip.Tx(addr, w, r)
}

var errBus = errors.New("bus error")

func newDev(t *testing.T) (*feram.Dev, *feramtest.Chip) {
	chip := &feramtest.Chip{Addr: feram.DefaultAddress}
	d, err := feram.NewI2C(chip, feram.DefaultAddress, nil)
	if err != nil {
		t.Fatal(err)
	}
	return d, chip
}

func TestSetGet(t *testing.T) {
	d, _ := newDev(t)
	var out bytes.Buffer
	if err := run(d, &out, []string{"set", "gateway", "10.1.2.3"}); err != nil {
		t.Fatal(err)
	}
	if err := run(d, &out, []string{"get", "gateway"}); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "10.1.2.3\n" {
		t.Errorf("get gateway = %q", got)
	}
	for _, args := range [][]string{
		{"get"},
		{"get", "dns"},
		{"set", "ip"},
		{"set", "ip", "300.1.1.1"},
		{"show", "x"},
		{"frobnicate"},
	} {
		if err := run(d, &out, args); err == nil {
			t.Errorf("run(%q) succeeded", args)
		}
	}
}

func TestShow(t *testing.T) {
	d, _ := newDev(t)
	if err := d.WriteConfig(&sample); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(d, &out, []string{"show"}); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"addressing   1\n" +
		"mac          02:00:5e:10:00:01\n" +
		"ip           192.168.1.1\n" +
		"mask         255.255.255.0\n" +
		"gateway      192.168.1.254\n" +
		"attenuation  6.5\n"
	if diff := cmp.Diff(out.String(), want); diff != "" {
		t.Errorf("show (-got +want):\n%s", diff)
	}
}

func TestExportProvision(t *testing.T) {
	src, _ := newDev(t)
	if err := src.WriteConfig(&sample); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run(src, &out, []string{"export"}); err != nil {
		t.Fatal(err)
	}
	var got feram.NetConfig
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(got, sample); diff != "" {
		t.Errorf("export (-got +want):\n%s", diff)
	}

	path := filepath.Join(t.TempDir(), "board.yaml")
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	dst, chip := newDev(t)
	if err := run(dst, &out, []string{"provision", path}); err != nil {
		t.Fatal(err)
	}
	c, err := dst.ReadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, sample); diff != "" {
		t.Errorf("provisioned (-got +want):\n%s", diff)
	}

	if err := os.WriteFile(path, []byte("ip: 10.0.0.1\ndns: 10.0.0.2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ops := len(chip.Ops)
	if err := run(dst, &out, []string{"provision", path}); err == nil {
		t.Error("provisioned a file with an unknown key")
	}
	if len(chip.Ops) != ops {
		t.Error("rejected file reached the chip")
	}
}

func TestErase(t *testing.T) {
	d, chip := newDev(t)
	if err := d.WriteConfig(&sample); err != nil {
		t.Fatal(err)
	}
	chip.Mem[0x17] = 0x42
	if err := run(d, &bytes.Buffer{}, []string{"erase"}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(chip.Mem[:0x17], make([]byte, 0x17)) {
		t.Errorf("configuration not erased: % x", chip.Mem[:0x17])
	}
	if chip.Mem[0x17] != 0x42 {
		t.Error("erase went past the configuration block")
	}
}

func TestDump(t *testing.T) {
	d, chip := newDev(t)
	chip.Mem[0x7FE] = 0xAB
	chip.Mem[0x7FF] = 0xCD
	var out bytes.Buffer
	if err := run(d, &out, []string{"dump", "0x7f0"}); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(out.String(), "\n")
	if !strings.HasPrefix(lines[0], "7f0:") {
		t.Errorf("first line %q", lines[0])
	}
	if !strings.Contains(lines[0], reset+"ab ") {
		t.Errorf("missing byte 0x7fe in %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], reset+"cd") {
		t.Errorf("missing byte 0x7ff in %q", lines[0])
	}
	if len(lines) != 4 || lines[1] != "" {
		t.Errorf("expected a single line of bytes:\n%s", out.String())
	}
	for _, f := range feram.Fields() {
		if !strings.Contains(out.String(), f.String()) {
			t.Errorf("legend misses %s", f)
		}
	}

	out.Reset()
	if err := run(d, &out, []string{"dump"}); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "\n"); n != 4 {
		t.Errorf("default dump has %d lines:\n%s", n, out.String())
	}
	for _, args := range [][]string{
		{"dump", "0x800"},
		{"dump", "-1"},
		{"dump", "0", "0"},
		{"dump", "0", "x"},
		{"dump", "0", "1", "2"},
	} {
		if err := run(d, &out, args); err == nil {
			t.Errorf("run(%q) succeeded", args)
		}
	}
}

func TestDumpBusError(t *testing.T) {
	chip := &failingChip{Chip: &feramtest.Chip{Addr: feram.DefaultAddress}, ok: 1}
	d, err := feram.NewI2C(chip, feram.DefaultAddress, nil)
	if err != nil {
		t.Fatal(err)
	}
	// The range spans pages 0 and 1; the second transaction fails.
	var out bytes.Buffer
	if err := run(d, &out, []string{"dump", "0xf8", "16"}); !errors.Is(err, errBus) {
		t.Errorf("dump = %v, want %v", err, errBus)
	}
	if out.Len() != 0 {
		t.Errorf("partial dump printed:\n%s", out.String())
	}
}
