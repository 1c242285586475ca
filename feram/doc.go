// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package feram drives a 16 kbit I²C FeRAM (Fujitsu MB85RC16, Cypress
// FM24CL16 and compatibles) used as non-volatile storage for a network
// interface configuration.
//
// The chip exposes 2 KiB as 8 pages of 256 bytes. The page is selected by
// the 3 low bits of the 7-bit slave address, the byte within the page by a
// single address byte, so a device occupies addresses 0x50 to 0x57.
//
// On top of raw byte access, the package interprets fixed offsets as the
// fields of a network configuration: addressing mode, MAC address, IPv4
// address, subnet mask, gateway and an attenuation value stored as a
// fixed-point number with a scale of 2. The offsets are described by a
// Layout; DefaultLayout matches the deployed on-chip schema.
//
// # Datasheet
//
// https://www.fujitsu.com/us/Images/MB85RC16-DS501-00001-7v0-E.pdf
package feram
