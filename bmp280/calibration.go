// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// calibrationSize is the length of the dig_T1..dig_T3 block at regCalib.
const calibrationSize = 6

// Calibration holds the factory trimming words for the temperature channel.
type Calibration struct {
	T1 uint16
	T2 int16
	T3 int16
}

// ParseCalibration decodes the 6 byte little-endian block starting at
// register 0x88.
//
// A block of all 0x00 or all 0xFF is rejected: it is what a floating or
// stuck bus returns, and dig_T1 is never zero on a real part.
func ParseCalibration(b []byte) (Calibration, error) {
	if len(b) != calibrationSize {
		return Calibration{}, &CalibrationParseError{Block: b, Reason: fmt.Sprintf("length %d, expected %d", len(b), calibrationSize)}
	}
	zero, ones := true, true
	for _, v := range b {
		zero = zero && v == 0x00
		ones = ones && v == 0xFF
	}
	if zero || ones {
		return Calibration{}, &CalibrationParseError{Block: b, Reason: "blank block"}
	}
	return Calibration{
		T1: binary.LittleEndian.Uint16(b[0:2]),
		T2: int16(binary.LittleEndian.Uint16(b[2:4])),
		T3: int16(binary.LittleEndian.Uint16(b[4:6])),
	}, nil
}

// RawSample is the uncompensated 20-bit temperature ADC output.
type RawSample uint32

// AssembleRaw builds a RawSample from the temp_msb, temp_lsb and temp_xlsb
// registers. Only the upper nibble of xlsb carries data.
func AssembleRaw(msb, lsb, xlsb byte) RawSample {
	return RawSample(uint32(msb)<<12 | uint32(lsb)<<4 | uint32(xlsb)>>4)
}

// CentiCelsius is a temperature in hundredths of a degree Celsius.
type CentiCelsius int32

// Temperature converts c to a periph temperature.
func (c CentiCelsius) Temperature() physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(c)*10*physic.MilliKelvin
}

func (c CentiCelsius) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d°C", sign, v/100, v%100)
}

// Compensate converts raw into a temperature using the datasheet's 32 bit
// integer formula, evaluated in 64 bits so no combination of raw and
// calibration words can overflow. >> on signed operands is arithmetic.
func (c Calibration) Compensate(raw RawSample) CentiCelsius {
	r := int64(raw)
	t1 := int64(c.T1)
	t2 := int64(c.T2)
	t3 := int64(c.T3)

	var1 := ((r>>3 - t1<<1) * t2) >> 11
	d := r>>4 - t1
	var2 := (((d * d) >> 12) * t3) >> 14
	fine := var1 + var2
	return CentiCelsius((fine*5 + 128) >> 8)
}
