// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// feram reads and programs the network configuration stored in an I²C
// FeRAM.
//
// Usage:
//
//	feram [flags] show
//	feram [flags] get <field>
//	feram [flags] set <field> <value>
//	feram [flags] export
//	feram [flags] provision <file.yaml>
//	feram [flags] erase
//	feram [flags] dump [offset [length]]
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/netferam/feram"
)

func mainImpl() error {
	busName := flag.String("b", "", "I²C bus to use")
	addr := flag.Uint("a", uint(feram.DefaultAddress), "7-bit I²C address of page 0")
	wp := flag.String("wp", "", "GPIO driving the write protect pin, if any")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Usage = usage
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() == 0 {
		return errors.New("specify a command")
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer b.Close()

	opts := feram.DefaultOpts
	if *wp != "" {
		p := gpioreg.ByName(*wp)
		if p == nil {
			return fmt.Errorf("invalid write protect pin %q", *wp)
		}
		opts.WriteProtect = p
	}
	d, err := feram.NewI2C(b, uint16(*addr), &opts)
	if err != nil {
		return err
	}
	log.Printf("using %s", d)
	err = run(d, colorable.NewColorableStdout(), flag.Args())
	if herr := d.Halt(); err == nil {
		err = herr
	}
	return err
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: feram [flags] <command> [args]\n\ncommands: show, get, set, export, provision, erase, dump\n\nflags:\n")
	flag.PrintDefaults()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "feram: %s.\n", err)
		os.Exit(1)
	}
}
