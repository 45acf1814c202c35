// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bmp280

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
)

const (
	// DefaultAddress is the address with SDO tied to GND.
	DefaultAddress uint16 = 0x76
	// AlternateAddress is the address with SDO tied to VDDIO.
	AlternateAddress uint16 = 0x77

	// ModeNormalT2 sets osrs_t=×2, osrs_p=skipped, mode=normal.
	ModeNormalT2 byte = 0b010_000_11

	regCalib    byte = 0x88
	regCtrlMeas byte = 0xF4
	regTempMSB  byte = 0xFA
	regTempLSB  byte = 0xFB
	regTempXLSB byte = 0xFC

	modeMask  byte = 0x03
	modeSleep byte = 0x00

	minSenseInterval = 10 * time.Millisecond
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Addr is the 7-bit I²C address of the sensor.
	Addr uint16
	// Mode is the value written to the ctrl_meas register by Configure.
	Mode byte
}

// DefaultOpts is the configuration used when NewI2C is passed nil.
var DefaultOpts = Opts{
	Addr: DefaultAddress,
	Mode: ModeNormalT2,
}

// Dev is a BMP280 reached through a bus.Transport.
type Dev struct {
	t    bus.Transport
	opts Opts

	mu       sync.Mutex
	cal      Calibration
	calOK    bool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewI2C returns a Dev for the sensor described by opts. No bus transaction
// is issued; call Configure and LoadCalibration before sampling.
func NewI2C(t bus.Transport, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	return &Dev{t: t, opts: *opts}
}

// Configure writes the configured mode to ctrl_meas.
func (d *Dev) Configure() error {
	w := [2]byte{regCtrlMeas, d.opts.Mode}
	if err := d.t.Write(d.opts.Addr, w[:]); err != nil {
		return fmt.Errorf("bmp280: configure: %w", err)
	}
	return nil
}

// LoadCalibration reads and decodes the temperature calibration words. It
// has no side effect on the device and returns identical results for
// identical register contents.
func (d *Dev) LoadCalibration() (Calibration, error) {
	var r [calibrationSize]byte
	if err := d.t.WriteRead(d.opts.Addr, []byte{regCalib}, r[:]); err != nil {
		return Calibration{}, fmt.Errorf("bmp280: read calibration: %w", err)
	}
	return ParseCalibration(r[:])
}

// ReadRaw reads temp_msb, temp_lsb and temp_xlsb with one transaction each.
func (d *Dev) ReadRaw() (RawSample, error) {
	var b [3]byte
	regs := [3]byte{regTempMSB, regTempLSB, regTempXLSB}
	for i := range regs {
		if err := d.t.WriteRead(d.opts.Addr, regs[i:i+1], b[i:i+1]); err != nil {
			return 0, fmt.Errorf("bmp280: read register 0x%02X: %w", regs[i], err)
		}
	}
	return AssembleRaw(b[0], b[1], b[2]), nil
}

// Sample reads one raw temperature and compensates it with cal.
func (d *Dev) Sample(cal Calibration) (CentiCelsius, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return 0, err
	}
	return cal.Compensate(raw), nil
}

// calibration returns the cached calibration, loading it on first use.
// d.mu must be held.
func (d *Dev) calibration() (Calibration, error) {
	if d.calOK {
		return d.cal, nil
	}
	cal, err := d.LoadCalibration()
	if err != nil {
		return Calibration{}, err
	}
	d.cal, d.calOK = cal, true
	return cal, nil
}

// Sense implements physic.SenseEnv. Only Temperature is set; the
// calibration is read from the device on the first call and kept.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	cal, err := d.calibration()
	if err != nil {
		return err
	}
	c, err := d.Sample(cal)
	if err != nil {
		return err
	}
	e.Temperature = c.Temperature()
	e.Pressure = 0
	e.Humidity = 0
	return nil
}

// SenseContinuous implements physic.SenseEnv. The sensor must already be in
// normal mode. Call Halt to stop.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minSenseInterval {
		return nil, errors.New("bmp280: sample interval is < device sample rate")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("bmp280: SenseContinuous already running")
	}
	d.shutdown = make(chan struct{})
	ch := make(chan physic.Env, 16)
	d.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil {
					select {
					case ch <- e:
					default:
					}
				}
			}
		}
	}(d.shutdown)
	return ch, nil
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Pressure = 0
	e.Humidity = 0
}

// Halt stops a SenseContinuous loop and puts the sensor to sleep. Implements
// conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	stop := d.shutdown
	d.shutdown = nil
	d.mu.Unlock()
	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	w := [2]byte{regCtrlMeas, d.opts.Mode&^modeMask | modeSleep}
	if err := d.t.Write(d.opts.Addr, w[:]); err != nil {
		return fmt.Errorf("bmp280: halt: %w", err)
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("bmp280{addr:0x%02x}", d.opts.Addr)
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
