// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build linux

package bus

import (
	"errors"
	"strings"

	"golang.org/x/sys/unix"
)

type errnoMessage struct {
	text string
	kind Kind
}

// Fault codes returned by the Linux i2c-dev interface, see
// Documentation/i2c/fault-codes.rst in the kernel tree.
var errnoKinds = []struct {
	errno unix.Errno
	kind  Kind
}{
	{unix.ENXIO, NoAcknowledgment},
	{unix.EREMOTEIO, NoAcknowledgment},
	{unix.EAGAIN, ArbitrationLost},
	{unix.ETIMEDOUT, Timeout},
}

var errnoMessages = func() []errnoMessage {
	out := make([]errnoMessage, 0, len(errnoKinds))
	for _, e := range errnoKinds {
		out = append(out, errnoMessage{text: strings.ToLower(e.errno.Error()), kind: e.kind})
	}
	return out
}()

func classifyErrno(err error) Kind {
	var errno unix.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	for _, e := range errnoKinds {
		if errno == e.errno {
			return e.kind
		}
	}
	return ""
}
