// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"

	"github.com/GermanBionicSystems/netferam/feram"
)

const reset = "\033[0m"

// fieldColors is indexed by feram.Field.
var fieldColors = []color.NRGBA{
	{0xff, 0xff, 0x00, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0x00, 0x80, 0xff, 0xff},
	{0xff, 0x80, 0x00, 0xff},
}

var unused = color.NRGBA{0x40, 0x40, 0x40, 0xff}

// dump prints n bytes starting at off, 16 per line. Each byte is preceded
// by a block colored after the field holding it.
func dump(d *feram.Dev, w io.Writer, off int64, n int) error {
	data := make([]byte, n)
	n, err := d.ReadAt(data, off)
	if err != nil && (err != io.EOF || n == 0) {
		return err
	}
	data = data[:n]
	l := d.Layout()
	p := ansi256.Default
	var buf bytes.Buffer
	for i, b := range data {
		addr := off + int64(i)
		if i%16 == 0 {
			if i != 0 {
				_, _ = buf.WriteString("\n")
			}
			_, _ = fmt.Fprintf(&buf, "%03x:", addr)
		}
		c := unused
		if f, ok := l.FieldAt(uint16(addr)); ok {
			c = fieldColors[f]
		}
		_, _ = fmt.Fprintf(&buf, " %s%s%02x", p.Block(c), reset, b)
	}
	_, _ = buf.WriteString("\n\n")
	for _, f := range feram.Fields() {
		_, _ = fmt.Fprintf(&buf, "%s%s %s  ", p.Block(fieldColors[f]), reset, f)
	}
	_, _ = buf.WriteString("\n")
	_, err = buf.WriteTo(w)
	return err
}
