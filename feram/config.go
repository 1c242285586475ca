// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package feram

// NetConfig is the whole network configuration in its text form.
type NetConfig struct {
	Addressing  AddressingMode `yaml:"addressing"`
	MAC         string         `yaml:"mac"`
	IP          string         `yaml:"ip"`
	Mask        string         `yaml:"mask"`
	Gateway     string         `yaml:"gateway"`
	Attenuation float64        `yaml:"attenuation"`
}

func (c *NetConfig) values() [numFields]any {
	return [numFields]any{
		FieldAddressing:  c.Addressing,
		FieldMAC:         c.MAC,
		FieldIP:          c.IP,
		FieldMask:        c.Mask,
		FieldGateway:     c.Gateway,
		FieldAttenuation: c.Attenuation,
	}
}

// ReadConfig reads every field.
func (d *Dev) ReadConfig() (NetConfig, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var c NetConfig
	dst := [numFields]any{
		FieldAddressing:  &c.Addressing,
		FieldMAC:         &c.MAC,
		FieldIP:          &c.IP,
		FieldMask:        &c.Mask,
		FieldGateway:     &c.Gateway,
		FieldAttenuation: &c.Attenuation,
	}
	for i, p := range dst {
		if err := d.readField(Field(i), p); err != nil {
			return NetConfig{}, err
		}
	}
	return c, nil
}

// WriteConfig writes every field. All the values are validated before the
// first write, so an invalid configuration leaves the chip untouched.
func (d *Dev) WriteConfig(c *NetConfig) error {
	var raw [numFields][]byte
	for i, v := range c.values() {
		b, err := Field(i).Encode(v)
		if err != nil {
			return err
		}
		raw[i] = b
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, b := range raw {
		if err := d.writeRaw(Field(i), b); err != nil {
			return err
		}
	}
	return nil
}
