// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bmp280 reads temperature from a Bosch BMP280 over I²C.
//
// Only the temperature path is implemented. The raw 20-bit ADC output is
// compensated with the integer formula from section 3.11.3 of the datasheet,
// giving hundredths of a degree Celsius without any floating point.
//
// The calibration words dig_T1..dig_T3 are read with LoadCalibration and
// passed explicitly to Sample, so a caller can load them once and keep them
// for the life of the process. Dev also implements physic.SenseEnv for use
// with the rest of periph.
//
// # Datasheet
//
// https://www.bosch-sensortec.com/media/boschsensortec/downloads/datasheets/bst-bmp280-ds001.pdf
package bmp280
