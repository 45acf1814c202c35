// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eeprom24 stores fixed size records in a 24xx series I²C EEPROM
// (24C32 and larger) that uses a two byte memory address.
//
// Every transaction starts with the big-endian memory offset. Write-cycle
// completion (tWR) is not polled: a Store followed immediately by another
// transaction to the same device may be NACKed while the cell is programmed.
package eeprom24

import (
	"encoding/binary"
	"fmt"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
)

// DefaultAddress is the address with A0..A2 tied to GND.
const DefaultAddress uint16 = 0x50

// RecordSize is the length of a Record in bytes.
const RecordSize = 8

// Record is a signed 64 bit value in big-endian two's complement.
type Record [RecordSize]byte

// EncodeRecord returns v as a Record.
func EncodeRecord(v int64) Record {
	var r Record
	binary.BigEndian.PutUint64(r[:], uint64(v))
	return r
}

// Int64 decodes r.
func (r Record) Int64() int64 {
	return int64(binary.BigEndian.Uint64(r[:]))
}

// Dev is an EEPROM reached through a bus.Transport.
type Dev struct {
	t    bus.Transport
	addr uint16
}

// New returns a Dev for the EEPROM at addr.
func New(t bus.Transport, addr uint16) *Dev {
	return &Dev{t: t, addr: addr}
}

// Store writes rec at offset in a single transaction.
func (d *Dev) Store(offset uint16, rec Record) error {
	var w [2 + RecordSize]byte
	binary.BigEndian.PutUint16(w[:2], offset)
	copy(w[2:], rec[:])
	if err := d.t.Write(d.addr, w[:]); err != nil {
		return fmt.Errorf("eeprom24: store at 0x%04X: %w", offset, err)
	}
	return nil
}

// Load reads the Record at offset.
func (d *Dev) Load(offset uint16) (Record, error) {
	var w [2]byte
	var rec Record
	binary.BigEndian.PutUint16(w[:], offset)
	if err := d.t.WriteRead(d.addr, w[:], rec[:]); err != nil {
		return Record{}, fmt.Errorf("eeprom24: load at 0x%04X: %w", offset, err)
	}
	return rec, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("eeprom24{addr:0x%02x}", d.addr)
}
