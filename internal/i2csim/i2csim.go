// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2csim implements an in-memory i2c.Bus with stateful device models
// and fault injection.
//
// Unlike i2ctest.Playback, which checks a fixed script, i2csim keeps device
// state across transactions so a test can write to a device and read it back.
package i2csim

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// ErrNACK is returned for a transaction to an address with no device.
var ErrNACK = errors.New("i2csim: address NACK")

// Device is a simulated I²C target.
type Device interface {
	Tx(w, r []byte) error
}

// Fault makes matching transactions fail.
type Fault struct {
	// Addr selects the device.
	Addr uint16
	// W, if set, must be a prefix of the transaction's write buffer.
	W []byte
	// Err is returned instead of performing the transaction.
	Err error
	// Times is the number of transactions to fail. 0 means 1.
	Times int
}

// Bus is a simulated I²C bus. The zero value is not usable; call New.
type Bus struct {
	mu     sync.Mutex
	devs   map[uint16]Device
	faults []Fault
	// Ops records every transaction that reached a device.
	Ops []i2ctest.IO
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{devs: map[uint16]Device{}}
}

// Attach connects d at addr.
func (b *Bus) Attach(addr uint16, d Device) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.devs[addr] = d
}

// Inject queues f. Faults are matched in the order they were injected.
func (b *Bus) Inject(f Fault) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f.Times <= 0 {
		f.Times = 1
	}
	b.faults = append(b.faults, f)
}

func (b *Bus) String() string {
	return "i2csim"
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.faults {
		f := &b.faults[i]
		if f.Times == 0 || f.Addr != addr || !bytes.HasPrefix(w, f.W) {
			continue
		}
		f.Times--
		return f.Err
	}
	d, ok := b.devs[addr]
	if !ok {
		return fmt.Errorf("0x%02x: %w", addr, ErrNACK)
	}
	if err := d.Tx(w, r); err != nil {
		return err
	}
	io := i2ctest.IO{Addr: addr, W: append([]byte(nil), w...)}
	if len(r) != 0 {
		io.R = append([]byte(nil), r...)
	}
	b.Ops = append(b.Ops, io)
	return nil
}

// SetSpeed implements i2c.Bus.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return nil
}

// RegisterFile models a device with an 8-bit auto-incrementing register
// pointer, like the BMP280.
type RegisterFile struct {
	mu   sync.Mutex
	regs [256]byte
	ptr  byte
}

// Tx implements Device. The first written byte sets the register pointer;
// following bytes are written from there. Reads continue from the pointer.
func (f *RegisterFile) Tx(w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(w) > 0 {
		f.ptr = w[0]
		for _, v := range w[1:] {
			f.regs[f.ptr] = v
			f.ptr++
		}
	}
	for i := range r {
		r[i] = f.regs[f.ptr]
		f.ptr++
	}
	return nil
}

// Set writes p starting at reg, bypassing the bus.
func (f *RegisterFile) Set(reg byte, p ...byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range p {
		f.regs[reg] = v
		reg++
	}
}

// Get returns the value of reg.
func (f *RegisterFile) Get(reg byte) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[reg]
}

// NewBMP280 returns a register file holding the given temperature calibration
// words and raw temperature.
func NewBMP280(t1 uint16, t2, t3 int16, raw uint32) *RegisterFile {
	f := &RegisterFile{}
	var cal [6]byte
	binary.LittleEndian.PutUint16(cal[0:], t1)
	binary.LittleEndian.PutUint16(cal[2:], uint16(t2))
	binary.LittleEndian.PutUint16(cal[4:], uint16(t3))
	f.Set(0x88, cal[:]...)
	f.Set(0xD0, 0x58) // chip id
	SetBMP280Raw(f, raw)
	return f
}

// SetBMP280Raw loads raw into temp_msb, temp_lsb and temp_xlsb.
func SetBMP280Raw(f *RegisterFile, raw uint32) {
	f.Set(0xFA, byte(raw>>12), byte(raw>>4), byte(raw<<4))
}

// EEPROM models a 24xx device with a 16-bit memory address. Writes and
// reads wrap at the end of memory. Page boundaries and write-cycle time are
// not modelled.
type EEPROM struct {
	mu  sync.Mutex
	mem []byte
	ptr int
}

// NewEEPROM returns an erased (0xFF) EEPROM of size bytes.
func NewEEPROM(size int) *EEPROM {
	e := &EEPROM{mem: make([]byte, size)}
	for i := range e.mem {
		e.mem[i] = 0xFF
	}
	return e
}

// Tx implements Device.
func (e *EEPROM) Tx(w, r []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(w) == 1 {
		return errors.New("i2csim: eeprom: partial memory address")
	}
	if len(w) >= 2 {
		e.ptr = int(binary.BigEndian.Uint16(w)) % len(e.mem)
		for _, v := range w[2:] {
			e.mem[e.ptr] = v
			e.ptr = (e.ptr + 1) % len(e.mem)
		}
	}
	for i := range r {
		r[i] = e.mem[e.ptr]
		e.ptr = (e.ptr + 1) % len(e.mem)
	}
	return nil
}

// Peek returns a copy of n bytes at offset, bypassing the bus.
func (e *EEPROM) Peek(offset, n int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = e.mem[(offset+i)%len(e.mem)]
	}
	return out
}

var _ i2c.Bus = &Bus{}
