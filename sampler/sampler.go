// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sampler runs the unattended sample-and-store loop: it reads the
// BMP280 temperature once per period and overwrites a single record in a
// 24xx EEPROM with it.
//
// A Loop starts in Init. Init configures the sensor and reads its calibration
// exactly once; failing either is fatal. The Loop then stays in Running,
// where a failed sample or store only costs that tick.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bmp280"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/eeprom24"
)

// State is the state of a Loop.
type State int

const (
	Init State = iota
	Running
	Failed
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Running:
		return "running"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config holds every bus address and timing used by the Loop.
type Config struct {
	SensorAddr uint16
	SensorMode byte
	StoreAddr  uint16
	// Offset is the EEPROM memory address of the record.
	Offset uint16
	Period time.Duration
	// ReadBack logs the previously stored record during Init.
	ReadBack bool
}

// DefaultConfig matches a BMP280 at 0x76 and a 24C512 at 0x50.
var DefaultConfig = Config{
	SensorAddr: bmp280.DefaultAddress,
	SensorMode: bmp280.ModeNormalT2,
	StoreAddr:  eeprom24.DefaultAddress,
	Offset:     0xACDC,
	Period:     time.Second,
	ReadBack:   true,
}

// Reading is one persisted measurement.
type Reading struct {
	Seq         uint64
	Time        time.Time
	Temperature bmp280.CentiCelsius
}

// Sink receives every reading after it has been stored.
type Sink interface {
	Publish(ctx context.Context, r Reading) error
}

// Stats counts ticks since the Loop was created.
type Stats struct {
	Ticks        uint64
	SampleErrors uint64
	StoreErrors  uint64
}

// InitError is returned when the Loop cannot leave Init.
type InitError struct {
	Step string
	Err  error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("sampler: init: %s: %v", e.Step, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(lp *Loop) { lp.log = l }
}

// WithSinks adds sinks called after every successful store.
func WithSinks(s ...Sink) Option {
	return func(lp *Loop) { lp.sinks = append(lp.sinks, s...) }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(lp *Loop) { lp.now = now }
}

// Loop is the sample-and-store state machine. It is not safe for concurrent
// use.
type Loop struct {
	cfg    Config
	sensor *bmp280.Dev
	store  *eeprom24.Dev
	log    *slog.Logger
	sinks  []Sink
	now    func() time.Time

	state State
	cal   bmp280.Calibration
	stats Stats
}

// New returns a Loop in Init that uses t for every transaction.
func New(t bus.Transport, cfg Config, opts ...Option) *Loop {
	l := &Loop{
		cfg:    cfg,
		sensor: bmp280.NewI2C(t, &bmp280.Opts{Addr: cfg.SensorAddr, Mode: cfg.SensorMode}),
		store:  eeprom24.New(t, cfg.StoreAddr),
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// State returns the current state.
func (l *Loop) State() State { return l.state }

// Stats returns the tick counters.
func (l *Loop) Stats() Stats { return l.stats }

// Calibration returns the calibration loaded by Init.
func (l *Loop) Calibration() bmp280.Calibration { return l.cal }

// Init configures the sensor, loads its calibration and optionally reports
// the stored record. It is a no-op once the Loop is Running.
func (l *Loop) Init() error {
	switch l.state {
	case Running:
		return nil
	case Failed:
		return &InitError{Step: "state", Err: errors.New("loop has failed")}
	}
	if err := l.sensor.Configure(); err != nil {
		return l.fail("configure sensor", err)
	}
	cal, err := l.sensor.LoadCalibration()
	if err != nil {
		return l.fail("load calibration", err)
	}
	l.cal = cal
	l.log.Info("calibration loaded", "sensor", l.sensor.String(), "t1", cal.T1, "t2", cal.T2, "t3", cal.T3)

	if l.cfg.ReadBack {
		if rec, err := l.store.Load(l.cfg.Offset); err != nil {
			l.log.Warn("could not read stored temperature", "offset", fmt.Sprintf("0x%04X", l.cfg.Offset), "error", err)
		} else {
			l.log.Info("stored temperature", "offset", fmt.Sprintf("0x%04X", l.cfg.Offset), "temperature", bmp280.CentiCelsius(rec.Int64()).String(), "raw", rec.Int64())
		}
	}
	l.state = Running
	return nil
}

func (l *Loop) fail(step string, err error) error {
	l.state = Failed
	ie := &InitError{Step: step, Err: err}
	l.log.Error("initialization failed", "step", step, "error", err, "kind", string(bus.KindOf(err)))
	return ie
}

// Tick runs one Running iteration: sample, compensate, store, then publish
// to the sinks. Sample and store errors are returned and counted; sink
// errors are only logged.
func (l *Loop) Tick(ctx context.Context) (bmp280.CentiCelsius, error) {
	if l.state != Running {
		return 0, fmt.Errorf("sampler: tick in state %s", l.state)
	}
	l.stats.Ticks++
	c, err := l.sensor.Sample(l.cal)
	if err != nil {
		l.stats.SampleErrors++
		return 0, fmt.Errorf("sample: %w", err)
	}
	if err := l.store.Store(l.cfg.Offset, eeprom24.EncodeRecord(int64(c))); err != nil {
		l.stats.StoreErrors++
		return c, fmt.Errorf("store: %w", err)
	}
	r := Reading{Seq: l.stats.Ticks, Time: l.now(), Temperature: c}
	for _, s := range l.sinks {
		if err := s.Publish(ctx, r); err != nil {
			l.log.Warn("sink failed", "seq", r.Seq, "error", err)
		}
	}
	return c, nil
}

// Run initializes the Loop and then ticks once per period until ctx is
// done. It returns the *InitError if Init fails, otherwise ctx.Err().
// Tick errors are logged and the loop continues.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Init(); err != nil {
		return err
	}
	ticker := time.NewTicker(l.cfg.Period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := l.Tick(ctx)
		if err != nil {
			l.log.Warn("tick failed",
				"tick", l.stats.Ticks,
				"error", err,
				"kind", string(bus.KindOf(err)),
				"sample_errors", l.stats.SampleErrors,
				"store_errors", l.stats.StoreErrors,
			)
			continue
		}
		l.log.Debug("temperature stored", "tick", l.stats.Ticks, "temperature", c.String())
	}
}
