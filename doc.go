// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermolog is a container for the BMP280 temperature logger.
//
// The drivers live in bmp280 and eeprom24, both on top of the transaction
// primitives in bus. sampler ties them into the periodic sample-and-store
// loop run by cmd/thermolog on Linux hosts and cmd/thermolog-pico on an
// RP2040.
package thermolog
