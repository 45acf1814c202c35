// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// MaxAddr is the highest valid 7-bit device address.
const MaxAddr uint16 = 0x7F

// Transport performs addressed I²C transactions.
//
// Implementations are not safe for concurrent use; a Transport is owned by a
// single goroutine.
type Transport interface {
	// Write sends p to the device at addr.
	Write(addr uint16, p []byte) error
	// WriteRead sends w to the device at addr, then reads len(r) bytes into r
	// with a repeated start.
	WriteRead(addr uint16, w, r []byte) error
}

// txFunc is the single primitive both periph and TinyGo expose.
type txFunc func(addr uint16, w, r []byte) error

func write(tx txFunc, addr uint16, p []byte) error {
	const op = "write"
	if err := check(op, addr, p, nil, false); err != nil {
		return err
	}
	if err := tx(addr, p, nil); err != nil {
		return &Error{Kind: classify(err), Op: op, Addr: addr, Err: err}
	}
	return nil
}

func writeRead(tx txFunc, addr uint16, w, r []byte) error {
	const op = "write-read"
	if err := check(op, addr, w, r, true); err != nil {
		return err
	}
	if err := tx(addr, w, r); err != nil {
		return &Error{Kind: classify(err), Op: op, Addr: addr, Err: err}
	}
	return nil
}

func check(op string, addr uint16, w, r []byte, read bool) error {
	switch {
	case addr > MaxAddr:
		return &Error{Kind: InvalidArgument, Op: op, Addr: addr, Err: fmt.Errorf("address 0x%x is not a 7-bit address", addr)}
	case len(w) == 0:
		return &Error{Kind: InvalidArgument, Op: op, Addr: addr, Err: fmt.Errorf("empty request")}
	case read && len(r) == 0:
		return &Error{Kind: InvalidArgument, Op: op, Addr: addr, Err: fmt.Errorf("empty response buffer")}
	}
	return nil
}

// I2C is a Transport over a periph.io I²C bus.
type I2C struct {
	b i2c.Bus
}

// NewI2C returns a Transport using the periph bus b.
func NewI2C(b i2c.Bus) *I2C {
	return &I2C{b: b}
}

// Write implements Transport.
func (t *I2C) Write(addr uint16, p []byte) error {
	return write(t.b.Tx, addr, p)
}

// WriteRead implements Transport.
func (t *I2C) WriteRead(addr uint16, w, r []byte) error {
	return writeRead(t.b.Tx, addr, w, r)
}

func (t *I2C) String() string {
	return t.b.String()
}

// TinyGo is a Transport over a TinyGo I²C peripheral, such as machine.I2C0.
type TinyGo struct {
	b drivers.I2C
}

// NewTinyGo returns a Transport using the TinyGo bus b.
func NewTinyGo(b drivers.I2C) *TinyGo {
	return &TinyGo{b: b}
}

// Write implements Transport.
func (t *TinyGo) Write(addr uint16, p []byte) error {
	return write(t.b.Tx, addr, p)
}

// WriteRead implements Transport.
func (t *TinyGo) WriteRead(addr uint16, w, r []byte) error {
	return writeRead(t.b.Tx, addr, w, r)
}

func (t *TinyGo) String() string {
	return "tinygo-i2c"
}

var _ Transport = &I2C{}
var _ Transport = &TinyGo{}
