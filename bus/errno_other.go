// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package bus

type errnoMessage struct {
	text string
	kind Kind
}

var errnoMessages []errnoMessage

func classifyErrno(err error) Kind { return "" }
