// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bus provides the two I²C transaction primitives used by the drivers
// in this module: an addressed write and an addressed write-then-read.
//
// Transport is implemented over a periph.io i2c.Bus for Linux hosts and over a
// tinygo.org/x/drivers I2C for microcontrollers. Neither adapter retries;
// retry policy belongs to the caller.
//
// Every failure is returned as an *Error whose Kind classifies the fault:
//
//	if errors.Is(err, bus.NoAcknowledgment) {
//		// The device did not answer its address.
//	}
package bus
