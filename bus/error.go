// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Kind classifies a failed bus transaction. It is comparable and implements
// error, so it can be used as an errors.Is target.
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	// NoAcknowledgment means the addressed device did not ACK its address or
	// a data byte.
	NoAcknowledgment Kind = "no acknowledgment"
	// Timeout means the transaction did not complete in the time allowed by
	// the controller.
	Timeout Kind = "timeout"
	// ArbitrationLost means another controller won the bus.
	ArbitrationLost Kind = "arbitration lost"
	// Unclassified is any other failure reported by the controller.
	Unclassified Kind = "bus failure"
	// InvalidArgument means the transaction was rejected before reaching the
	// bus: bad address or empty buffer.
	InvalidArgument Kind = "invalid argument"
)

// Error is the error returned by every Transport operation.
type Error struct {
	Kind Kind
	Op   string // "write" or "write-read"
	Addr uint16
	Err  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("bus: %s 0x%02x: %s", e.Op, e.Addr, e.Kind)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf returns the Kind of err, or the empty Kind if err is nil or was not
// produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// classify maps a controller error onto a Kind.
func classify(err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return Timeout
	}
	if k := classifyErrno(err); k != "" {
		return k
	}
	// Some host drivers flatten the errno into text with %v.
	msg := strings.ToLower(err.Error())
	for _, m := range errnoMessages {
		if strings.Contains(msg, m.text) {
			return m.kind
		}
	}
	switch {
	case strings.Contains(msg, "nack"), strings.Contains(msg, "no ack"), strings.Contains(msg, "not acknowledge"):
		return NoAcknowledgment
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return Timeout
	case strings.Contains(msg, "arbitration"):
		return ArbitrationLost
	}
	return Unclassified
}
