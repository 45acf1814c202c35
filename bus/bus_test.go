// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"tinygo.org/x/drivers"
)

func TestI2C_Playback(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x76, W: []byte{0xF4, 0x43}},
			{Addr: 0x76, W: []byte{0xFA}, R: []byte{0x7F}},
		},
	}
	tr := NewI2C(pb)
	if err := tr.Write(0x76, []byte{0xF4, 0x43}); err != nil {
		t.Fatal(err)
	}
	var r [1]byte
	if err := tr.WriteRead(0x76, []byte{0xFA}, r[:]); err != nil {
		t.Fatal(err)
	}
	if r[0] != 0x7F {
		t.Errorf("read 0x%02x, expected 0x7f", r[0])
	}
	if err := pb.Close(); err != nil {
		t.Fatal(err)
	}
	if s := tr.String(); len(s) == 0 {
		t.Error("invalid String() result")
	}
}

func TestPreconditions(t *testing.T) {
	tr := NewI2C(&i2ctest.Playback{})
	var r [1]byte
	tests := []struct {
		name string
		err  error
	}{
		{"wide address", tr.Write(0x80, []byte{0})},
		{"empty write", tr.Write(0x50, nil)},
		{"empty request", tr.WriteRead(0x50, nil, r[:])},
		{"empty response", tr.WriteRead(0x50, []byte{0}, nil)},
	}
	for _, test := range tests {
		if !errors.Is(test.err, InvalidArgument) {
			t.Errorf("%s: got %v, expected InvalidArgument", test.name, test.err)
		}
	}
}

// fakeTinyGo fails every transaction with err.
type fakeTinyGo struct {
	err  error
	addr uint16
	w    []byte
}

func (f *fakeTinyGo) Tx(addr uint16, w, r []byte) error {
	f.addr = addr
	f.w = append([]byte(nil), w...)
	for i := range r {
		r[i] = 0xA5
	}
	return f.err
}

var _ drivers.I2C = &fakeTinyGo{}

func TestTinyGo(t *testing.T) {
	f := &fakeTinyGo{}
	tr := NewTinyGo(f)
	var r [2]byte
	if err := tr.WriteRead(0x50, []byte{0xAC, 0xDC}, r[:]); err != nil {
		t.Fatal(err)
	}
	if f.addr != 0x50 || !bytes.Equal(f.w, []byte{0xAC, 0xDC}) {
		t.Errorf("unexpected transaction addr=0x%x w=%#v", f.addr, f.w)
	}
	if r != [2]byte{0xA5, 0xA5} {
		t.Errorf("unexpected read %#v", r)
	}

	f.err = fmt.Errorf("i2c: timeout waiting for stop")
	err := tr.Write(0x50, []byte{0})
	if !errors.Is(err, Timeout) {
		t.Fatalf("got %v, expected Timeout", err)
	}
	if !errors.Is(err, f.err) {
		t.Error("cause not wrapped")
	}
	var be *Error
	if !errors.As(err, &be) || be.Op != "write" || be.Addr != 0x50 {
		t.Errorf("unexpected error %#v", be)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{context.DeadlineExceeded, Timeout},
		{fmt.Errorf("tx: %w", os.ErrDeadlineExceeded), Timeout},
		{errors.New("I2C: NACK on address"), NoAcknowledgment},
		{errors.New("lost arbitration"), ArbitrationLost},
		{errors.New("something odd"), Unclassified},
	}
	for _, test := range tests {
		if k := classify(test.err); k != test.kind {
			t.Errorf("classify(%v) = %q, expected %q", test.err, k, test.kind)
		}
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(nil); k != "" {
		t.Errorf("KindOf(nil) = %q", k)
	}
	if k := KindOf(errors.New("x")); k != "" {
		t.Errorf("KindOf(foreign) = %q", k)
	}
	err := fmt.Errorf("sample: %w", &Error{Kind: ArbitrationLost, Op: "write", Addr: 0x76})
	if k := KindOf(err); k != ArbitrationLost {
		t.Errorf("KindOf(wrapped) = %q", k)
	}
	if errors.Is(err, Timeout) {
		t.Error("ArbitrationLost matched Timeout")
	}
}
