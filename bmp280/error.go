// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import "fmt"

// CalibrationParseError is returned when the calibration block read from the
// device cannot be trusted.
type CalibrationParseError struct {
	Block  []byte
	Reason string
}

func (e *CalibrationParseError) Error() string {
	return fmt.Sprintf("bmp280: invalid calibration block % x: %s", e.Block, e.Reason)
}
