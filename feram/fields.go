// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package feram

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"net"
	"net/netip"
	"reflect"
	"strconv"
)

// Field identifies a network configuration field stored on the chip.
type Field uint8

const (
	// FieldAddressing is the addressing mode byte, opaque to this package.
	FieldAddressing Field = iota
	// FieldMAC is the 6 byte MAC address.
	FieldMAC
	// FieldIP is the IPv4 address.
	FieldIP
	// FieldMask is the IPv4 subnet mask.
	FieldMask
	// FieldGateway is the IPv4 gateway address.
	FieldGateway
	// FieldAttenuation is a signed big endian 32 bits integer holding twice
	// the attenuation.
	FieldAttenuation

	numFields
)

// AddressingMode is the raw addressing mode byte.
type AddressingMode byte

func (m AddressingMode) String() string {
	return strconv.Itoa(int(m))
}

var (
	// ErrNilDestination is returned when a field is read into a nil
	// destination. The bus read has happened when it is returned.
	ErrNilDestination = errors.New("feram: nil destination")
	// ErrInvalidValue is returned when a value cannot be encoded into a
	// field. Nothing is written to the chip in that case.
	ErrInvalidValue = errors.New("feram: invalid value")

	errField  = errors.New("feram: unknown field")
	errLayout = errors.New("feram: invalid layout")
)

// codec converts between the raw bytes of a field and its value.
type codec interface {
	decode(b []byte) any
	encode(v any) ([]byte, error)
	parse(s string) ([]byte, error)
}

var fields = [numFields]struct {
	name  string
	size  int
	codec codec
}{
	FieldAddressing:  {"addressing", 1, byteCodec{}},
	FieldMAC:         {"mac", 6, macCodec{}},
	FieldIP:          {"ip", 4, ipv4Codec{}},
	FieldMask:        {"mask", 4, ipv4Codec{}},
	FieldGateway:     {"gateway", 4, ipv4Codec{}},
	FieldAttenuation: {"attenuation", 4, fixed2Codec{}},
}

// Fields returns every field in on-chip order of DefaultLayout.
func Fields() []Field {
	f := make([]Field, numFields)
	for i := range f {
		f[i] = Field(i)
	}
	return f
}

// LookupField returns the field called name.
func LookupField(name string) (Field, bool) {
	for i, f := range fields {
		if f.name == name {
			return Field(i), true
		}
	}
	return 0, false
}

func (f Field) String() string {
	if f >= numFields {
		return "Field(" + strconv.Itoa(int(f)) + ")"
	}
	return fields[f].name
}

// Size returns the width of the field in bytes.
func (f Field) Size() int {
	if f >= numFields {
		return 0
	}
	return fields[f].size
}

// Decode converts the raw bytes of the field into dst. dst is a pointer to
// the natural type of the field (AddressingMode, net.HardwareAddr, netip.Addr
// or float64), to a string receiving the canonical text form, or to a byte
// slice receiving a copy of the raw bytes.
func (f Field) Decode(raw []byte, dst any) error {
	if f >= numFields {
		return errField
	}
	if len(raw) != f.Size() {
		return fmt.Errorf("feram: %s needs %d bytes, got %d", f, f.Size(), len(raw))
	}
	if isNil(dst) {
		return ErrNilDestination
	}
	v := fields[f].codec.decode(raw)
	switch p := dst.(type) {
	case *string:
		*p = fmt.Sprint(v)
		return nil
	case *[]byte:
		*p = append((*p)[:0], raw...)
		return nil
	}
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || !reflect.TypeOf(v).AssignableTo(rv.Elem().Type()) {
		return fmt.Errorf("feram: cannot decode %s into %T", f, dst)
	}
	rv.Elem().Set(reflect.ValueOf(v))
	return nil
}

// Encode converts v into the raw bytes of the field. v is either of the
// natural type of the field, its text form, or exactly Size raw bytes.
func (f Field) Encode(v any) ([]byte, error) {
	if f >= numFields {
		return nil, errField
	}
	var b []byte
	var err error
	switch x := v.(type) {
	case string:
		b, err = fields[f].codec.parse(x)
	case []byte:
		if len(x) != f.Size() {
			err = ErrInvalidValue
		}
		b = append([]byte(nil), x...)
	default:
		b, err = fields[f].codec.encode(v)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s %v", ErrInvalidValue, f, v)
	}
	return b, nil
}

// ReadField reads the field f into dst, see Field.Decode for the accepted
// destinations. Reading into a nil destination still reads the chip and
// then fails with ErrNilDestination, even when the read itself failed.
func (d *Dev) ReadField(f Field, dst any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readField(f, dst)
}

// WriteField encodes v, see Field.Encode, and writes it to the field f. An
// invalid value is rejected before any bus traffic.
func (d *Dev) WriteField(f Field, v any) error {
	b, err := f.Encode(v)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRaw(f, b)
}

// FormatField returns the canonical text form of the field f.
func (d *Dev) FormatField(f Field) (string, error) {
	var s string
	err := d.ReadField(f, &s)
	return s, err
}

// ParseField parses s and writes it to the field f.
func (d *Dev) ParseField(f Field, s string) error {
	return d.WriteField(f, s)
}

func (d *Dev) readField(f Field, dst any) error {
	if f >= numFields {
		return errField
	}
	raw := make([]byte, f.Size())
	err := d.read(d.layout[f], raw)
	if isNil(dst) {
		return ErrNilDestination
	}
	if err != nil {
		return fmt.Errorf("feram: read %s: %w", f, err)
	}
	return f.Decode(raw, dst)
}

func isNil(dst any) bool {
	if dst == nil {
		return true
	}
	rv := reflect.ValueOf(dst)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (d *Dev) writeRaw(f Field, b []byte) error {
	if err := d.write(d.layout[f], b); err != nil {
		return fmt.Errorf("feram: write %s: %w", f, err)
	}
	return nil
}

// Addressing returns the addressing mode byte.
func (d *Dev) Addressing() (AddressingMode, error) {
	var m AddressingMode
	err := d.ReadField(FieldAddressing, &m)
	return m, err
}

// SetAddressing stores the addressing mode byte.
func (d *Dev) SetAddressing(m AddressingMode) error {
	return d.WriteField(FieldAddressing, m)
}

// MAC returns the MAC address. Its String method yields the lowercase colon
// separated form.
func (d *Dev) MAC() (net.HardwareAddr, error) {
	var mac net.HardwareAddr
	err := d.ReadField(FieldMAC, &mac)
	return mac, err
}

// SetMAC stores a MAC address given as 6 colon separated hexadecimal bytes.
func (d *Dev) SetMAC(s string) error {
	return d.WriteField(FieldMAC, s)
}

// IP returns the IPv4 address.
func (d *Dev) IP() (netip.Addr, error) {
	return d.ipv4(FieldIP)
}

// SetIP stores an IPv4 address given in dotted decimal form.
func (d *Dev) SetIP(s string) error {
	return d.WriteField(FieldIP, s)
}

// Mask returns the subnet mask.
func (d *Dev) Mask() (netip.Addr, error) {
	return d.ipv4(FieldMask)
}

// SetMask stores a subnet mask given in dotted decimal form.
func (d *Dev) SetMask(s string) error {
	return d.WriteField(FieldMask, s)
}

// Gateway returns the gateway address.
func (d *Dev) Gateway() (netip.Addr, error) {
	return d.ipv4(FieldGateway)
}

// SetGateway stores a gateway address given in dotted decimal form.
func (d *Dev) SetGateway(s string) error {
	return d.WriteField(FieldGateway, s)
}

// Attenuation returns the attenuation. The chip stores twice the value, so
// the result has a resolution of 0.5.
func (d *Dev) Attenuation() (float64, error) {
	var a float64
	err := d.ReadField(FieldAttenuation, &a)
	return a, err
}

// SetAttenuation stores the attenuation. The value is truncated toward zero
// to a multiple of 0.5.
func (d *Dev) SetAttenuation(a float64) error {
	return d.WriteField(FieldAttenuation, a)
}

func (d *Dev) ipv4(f Field) (netip.Addr, error) {
	var a netip.Addr
	err := d.ReadField(f, &a)
	return a, err
}

type byteCodec struct{}

func (byteCodec) decode(b []byte) any {
	return AddressingMode(b[0])
}

func (byteCodec) encode(v any) ([]byte, error) {
	switch x := v.(type) {
	case AddressingMode:
		return []byte{byte(x)}, nil
	case byte:
		return []byte{x}, nil
	case int:
		if x >= 0 && x <= 0xFF {
			return []byte{byte(x)}, nil
		}
	}
	return nil, ErrInvalidValue
}

func (byteCodec) parse(s string) ([]byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return nil, err
	}
	return []byte{byte(n)}, nil
}

type macCodec struct{}

func (macCodec) decode(b []byte) any {
	return net.HardwareAddr(append([]byte(nil), b...))
}

func (c macCodec) encode(v any) ([]byte, error) {
	mac, ok := v.(net.HardwareAddr)
	if !ok || len(mac) != 6 {
		return nil, ErrInvalidValue
	}
	return append([]byte(nil), mac...), nil
}

func (c macCodec) parse(s string) ([]byte, error) {
	mac, err := net.ParseMAC(s)
	if err != nil {
		return nil, err
	}
	return c.encode(mac)
}

type ipv4Codec struct{}

func (ipv4Codec) decode(b []byte) any {
	return netip.AddrFrom4([4]byte(b))
}

func (ipv4Codec) encode(v any) ([]byte, error) {
	switch x := v.(type) {
	case netip.Addr:
		if x.Is4() {
			a := x.As4()
			return a[:], nil
		}
	case net.IP:
		if ip4 := x.To4(); ip4 != nil {
			return append([]byte(nil), ip4...), nil
		}
	}
	return nil, ErrInvalidValue
}

func (c ipv4Codec) parse(s string) ([]byte, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	return c.encode(a)
}

// fixed2Codec stores a real number as a big endian int32 with a scale of 2.
type fixed2Codec struct{}

func (fixed2Codec) decode(b []byte) any {
	return float64(int32(binary.BigEndian.Uint32(b))) / 2
}

func (fixed2Codec) encode(v any) ([]byte, error) {
	var x float64
	switch n := v.(type) {
	case float64:
		x = n
	case float32:
		x = float64(n)
	case int:
		x = float64(n)
	default:
		return nil, ErrInvalidValue
	}
	s := x * 2
	if math.IsNaN(s) || s < math.MinInt32 || s >= math.MaxInt32+1 {
		return nil, ErrInvalidValue
	}
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(int32(s)))
	return b, nil
}

func (c fixed2Codec) parse(s string) ([]byte, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return c.encode(x)
}
