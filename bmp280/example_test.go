// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280_test

import (
	"fmt"
	"log"
	"time"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bmp280"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use i2creg I²C bus registry to find the first available I²C bus.
	b, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer b.Close()

	dev := bmp280.NewI2C(bus.NewI2C(b), nil)
	if err := dev.Configure(); err != nil {
		log.Fatal(err)
	}
	cal, err := dev.LoadCalibration()
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		time.Sleep(time.Second)
		c, err := dev.Sample(cal)
		if err != nil {
			log.Println(err)
			continue
		}
		fmt.Println(c)
	}
}
