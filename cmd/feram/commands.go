// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/netferam/feram"
)

var errArgs = errors.New("wrong number of arguments")

// run executes the command in args[0] against d, printing to w.
func run(d *feram.Dev, w io.Writer, args []string) error {
	cmd, args := args[0], args[1:]
	switch cmd {
	case "show":
		if len(args) != 0 {
			return errArgs
		}
		return show(d, w)
	case "get":
		if len(args) != 1 {
			return errArgs
		}
		f, err := lookup(args[0])
		if err != nil {
			return err
		}
		s, err := d.FormatField(f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	case "set":
		if len(args) != 2 {
			return errArgs
		}
		f, err := lookup(args[0])
		if err != nil {
			return err
		}
		log.Printf("%s <- %s", f, args[1])
		return d.ParseField(f, args[1])
	case "export":
		if len(args) != 0 {
			return errArgs
		}
		return export(d, w)
	case "provision":
		if len(args) != 1 {
			return errArgs
		}
		return provision(d, args[0])
	case "erase":
		if len(args) != 0 {
			return errArgs
		}
		l := d.Layout()
		off, n := l.Span()
		log.Printf("erasing %d bytes at 0x%03x", n, off)
		return d.Erase(int64(off), n)
	case "dump":
		off, n, err := dumpRange(d, args)
		if err != nil {
			return err
		}
		return dump(d, w, off, n)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func lookup(name string) (feram.Field, error) {
	f, ok := feram.LookupField(name)
	if !ok {
		return 0, fmt.Errorf("unknown field %q", name)
	}
	return f, nil
}

func show(d *feram.Dev, w io.Writer) error {
	for _, f := range feram.Fields() {
		s, err := d.FormatField(f)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", f, s); err != nil {
			return err
		}
	}
	return nil
}

func export(d *feram.Dev, w io.Writer) error {
	c, err := d.ReadConfig()
	if err != nil {
		return err
	}
	e := yaml.NewEncoder(w)
	if err := e.Encode(&c); err != nil {
		return err
	}
	return e.Close()
}

func provision(d *feram.Dev, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var c feram.NetConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Printf("provisioning %+v", c)
	return d.WriteConfig(&c)
}

// dumpRange parses the optional offset and length of the dump command. It
// defaults to the configuration block.
func dumpRange(d *feram.Dev, args []string) (int64, int, error) {
	l := d.Layout()
	o, n := l.Span()
	off := int64(o)
	var err error
	switch len(args) {
	case 2:
		if n, err = strconv.Atoi(args[1]); err != nil {
			return 0, 0, err
		}
		fallthrough
	case 1:
		if off, err = strconv.ParseInt(args[0], 0, 64); err != nil {
			return 0, 0, err
		}
		if len(args) == 1 {
			n = feram.Size - int(off)
		}
	case 0:
	default:
		return 0, 0, errArgs
	}
	if off < 0 || off >= feram.Size || n <= 0 {
		return 0, 0, fmt.Errorf("invalid range %d+%d", off, n)
	}
	return off, n, nil
}
