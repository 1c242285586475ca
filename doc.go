// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package netferam holds the driver of the FeRAM storing a board's network
// configuration, see package feram, and the feram command line tool.
package netferam
