// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package eeprom24

import (
	"errors"
	"math"
	"testing"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/internal/i2csim"
	"periph.io/x/conn/v3/i2c/i2ctest"
)

const offset uint16 = 0xACDC

func TestRecord(t *testing.T) {
	tests := []struct {
		v     int64
		bytes Record
	}{
		{2508, Record{0, 0, 0, 0, 0, 0, 0x09, 0xCC}},
		{-786, Record{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFC, 0xEE}},
		{0, Record{}},
		{math.MinInt64, Record{0x80, 0, 0, 0, 0, 0, 0, 0}},
	}
	for _, test := range tests {
		if r := EncodeRecord(test.v); r != test.bytes {
			t.Errorf("EncodeRecord(%d) = % x, expected % x", test.v, r, test.bytes)
		}
		if v := test.bytes.Int64(); v != test.v {
			t.Errorf("% x.Int64() = %d, expected %d", test.bytes, v, test.v)
		}
	}
}

func TestStoreLoad_Wire(t *testing.T) {
	rec := EncodeRecord(2508)
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: DefaultAddress, W: []byte{0xAC, 0xDC, 0, 0, 0, 0, 0, 0, 0x09, 0xCC}},
			{Addr: DefaultAddress, W: []byte{0xAC, 0xDC}, R: rec[:]},
		},
	}
	dev := New(bus.NewI2C(pb), DefaultAddress)
	if err := dev.Store(offset, rec); err != nil {
		t.Fatal(err)
	}
	got, err := dev.Load(offset)
	if err != nil {
		t.Fatal(err)
	}
	if got != rec {
		t.Errorf("Load() = % x, expected % x", got, rec)
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreLoad_RoundTrip(t *testing.T) {
	sim := i2csim.New()
	sim.Attach(DefaultAddress, i2csim.NewEEPROM(1<<16))
	dev := New(bus.NewI2C(sim), DefaultAddress)

	records := []Record{
		{},
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{1, 2, 3, 4, 5, 6, 7, 8},
		{0x80, 0x00, 0x7F, 0xFF, 0x55, 0xAA, 0x0F, 0xF0},
		EncodeRecord(-1),
	}
	for _, off := range []uint16{0, offset, 0xFFF8} {
		for _, rec := range records {
			if err := dev.Store(off, rec); err != nil {
				t.Fatal(err)
			}
			got, err := dev.Load(off)
			if err != nil {
				t.Fatal(err)
			}
			if got != rec {
				t.Errorf("offset 0x%04X: Load() = % x, expected % x", off, got, rec)
			}
		}
	}
}

func TestStore_Error(t *testing.T) {
	sim := i2csim.New()
	dev := New(bus.NewI2C(sim), DefaultAddress)
	err := dev.Store(offset, Record{})
	if !errors.Is(err, bus.NoAcknowledgment) {
		t.Errorf("Store() on an empty bus = %v, expected NoAcknowledgment", err)
	}
	if _, err := dev.Load(offset); !errors.Is(err, bus.NoAcknowledgment) {
		t.Errorf("Load() on an empty bus = %v, expected NoAcknowledgment", err)
	}
	if s := dev.String(); s != "eeprom24{addr:0x50}" {
		t.Errorf("unexpected String() %q", s)
	}
}
