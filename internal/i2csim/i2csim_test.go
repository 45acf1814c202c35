// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2csim

import (
	"bytes"
	"errors"
	"testing"
)

func TestRegisterFile(t *testing.T) {
	b := New()
	f := NewBMP280(27504, 26435, -1000, 519888)
	b.Attach(0x76, f)

	r := make([]byte, 6)
	if err := b.Tx(0x76, []byte{0x88}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{0x70, 0x6B, 0x43, 0x67, 0x18, 0xFC}) {
		t.Errorf("calibration block % x", r)
	}

	r = r[:3]
	if err := b.Tx(0x76, []byte{0xFA}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, []byte{0x7E, 0xED, 0x00}) {
		t.Errorf("raw registers % x", r)
	}

	if err := b.Tx(0x76, []byte{0xF4, 0x43}, nil); err != nil {
		t.Fatal(err)
	}
	if v := f.Get(0xF4); v != 0x43 {
		t.Errorf("ctrl_meas 0x%02x", v)
	}
	if len(b.Ops) != 3 {
		t.Errorf("recorded %d ops, expected 3", len(b.Ops))
	}
}

func TestEEPROM(t *testing.T) {
	b := New()
	e := NewEEPROM(1 << 16)
	b.Attach(0x50, e)

	payload := []byte{0xAC, 0xDC, 1, 2, 3, 4, 5, 6, 7, 8}
	if err := b.Tx(0x50, payload, nil); err != nil {
		t.Fatal(err)
	}
	r := make([]byte, 8)
	if err := b.Tx(0x50, []byte{0xAC, 0xDC}, r); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(r, payload[2:]) {
		t.Errorf("read back % x", r)
	}
	if got := e.Peek(0xACDC-1, 1); got[0] != 0xFF {
		t.Errorf("neighbouring cell modified: % x", got)
	}

	// Wrap at the end of memory.
	if err := b.Tx(0x50, []byte{0xFF, 0xFF, 0x11, 0x22}, nil); err != nil {
		t.Fatal(err)
	}
	if got := e.Peek(0, 1); got[0] != 0x22 {
		t.Errorf("no wrap: % x", got)
	}

	if err := b.Tx(0x50, []byte{0x00}, r); err == nil {
		t.Error("expected error for a one byte address")
	}
}

func TestFaults(t *testing.T) {
	b := New()
	b.Attach(0x76, &RegisterFile{})
	injected := errors.New("injected")
	b.Inject(Fault{Addr: 0x76, W: []byte{0xFB}, Err: injected, Times: 2})

	r := make([]byte, 1)
	if err := b.Tx(0x76, []byte{0xFA}, r); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := b.Tx(0x76, []byte{0xFB}, r); !errors.Is(err, injected) {
			t.Fatalf("got %v, expected injected fault", err)
		}
	}
	if err := b.Tx(0x76, []byte{0xFB}, r); err != nil {
		t.Fatal(err)
	}
	if err := b.Tx(0x10, []byte{0x00}, nil); !errors.Is(err, ErrNACK) {
		t.Errorf("got %v, expected ErrNACK", err)
	}
	if len(b.Ops) != 2 {
		t.Errorf("failed transactions were recorded: %d ops", len(b.Ops))
	}
}
