// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package feram

import "fmt"

// Layout is the offset of every field on the chip, indexed by Field.
type Layout [numFields]uint16

// DefaultLayout is the schema of deployed boards. It must not change, the
// fields are packed from offset 0 in Field order.
var DefaultLayout = Layout{
	FieldAddressing:  0x00,
	FieldMAC:         0x01,
	FieldIP:          0x07,
	FieldMask:        0x0B,
	FieldGateway:     0x0F,
	FieldAttenuation: 0x13,
}

// Offset returns the offset of f, or 0 if f is not a known field.
func (l *Layout) Offset(f Field) uint16 {
	if f >= numFields {
		return 0
	}
	return l[f]
}

// Span returns the smallest region covering every field.
func (l *Layout) Span() (off uint16, n int) {
	lo, hi := uint16(Size), 0
	for i, o := range l {
		if o < lo {
			lo = o
		}
		if end := int(o) + Field(i).Size(); end > hi {
			hi = end
		}
	}
	return lo, hi - int(lo)
}

// FieldAt returns the field holding the byte at off.
func (l *Layout) FieldAt(off uint16) (Field, bool) {
	for i, o := range l {
		if off >= o && int(off) < int(o)+Field(i).Size() {
			return Field(i), true
		}
	}
	return 0, false
}

// validate checks every field fits in the chip without crossing a page,
// since a field is transferred in a single transaction, and that no two
// fields overlap.
func (l *Layout) validate() error {
	for i, o := range l {
		f := Field(i)
		end := int(o) + f.Size()
		if end > Size {
			return fmt.Errorf("%w: %s at 0x%03x is past the end of the chip", errLayout, f, o)
		}
		if int(o)/PageSize != (end-1)/PageSize {
			return fmt.Errorf("%w: %s at 0x%03x crosses a page", errLayout, f, o)
		}
		for j := i + 1; j < len(l); j++ {
			g := Field(j)
			if int(o) < int(l[j])+g.Size() && int(l[j]) < end {
				return fmt.Errorf("%w: %s overlaps %s", errLayout, f, g)
			}
		}
	}
	return nil
}
