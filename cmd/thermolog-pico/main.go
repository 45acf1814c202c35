// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build tinygo

// thermolog-pico is the RP2040 build of thermolog: BMP280 and EEPROM on I2C1
// (SDA GP6, SCL GP7), logs on the USB serial console.
//
//	tinygo flash -target pico ./cmd/thermolog-pico
package main

import (
	"context"
	"log/slog"
	"machine"
	"os"
	"time"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/sampler"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	i2c := machine.I2C1
	if err := i2c.Configure(machine.I2CConfig{
		SDA:       machine.GP6,
		SCL:       machine.GP7,
		Frequency: 100 * machine.KHz,
	}); err != nil {
		logger.Error("i2c configure failed", "error", err)
		halt()
	}

	loop := sampler.New(bus.NewTinyGo(i2c), sampler.DefaultConfig, sampler.WithLogger(logger))
	if err := loop.Run(context.Background()); err != nil {
		logger.Error("sampler stopped", "error", err)
	}
	halt()
}

// halt parks the firmware; there is nothing to return to.
func halt() {
	for {
		time.Sleep(time.Hour)
	}
}
