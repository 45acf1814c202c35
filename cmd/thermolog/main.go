// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// thermolog samples a BMP280 once per period and keeps the latest
// temperature in a 24xx EEPROM.
//
// Configuration comes from the environment, see internal/config. A failure to
// configure the sensor or read its calibration exits with status 1; bus
// errors after that are logged and the next period is tried.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/gauge"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/internal/config"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/internal/logging"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/internal/telemetry"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/sampler"
)

var version = "dev"

const appName = "thermolog"

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg, version, appName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}
	b, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("open I²C bus %q: %w", cfg.I2CBus, err)
	}
	defer b.Close()

	logger.Info("starting",
		"version", version,
		"bus", b.String(),
		"sensor", fmt.Sprintf("0x%02x", cfg.Sampler.SensorAddr),
		"store", fmt.Sprintf("0x%02x", cfg.Sampler.StoreAddr),
		"offset", fmt.Sprintf("0x%04X", cfg.Sampler.Offset),
		"period", cfg.Sampler.Period,
	)

	var sinks []sampler.Sink
	if cfg.MQTTBroker != "" {
		tc := telemetry.NewClient(telemetry.Options{
			Broker:    cfg.MQTTBroker,
			Port:      cfg.MQTTPort,
			ClientID:  cfg.MQTTClientID,
			StationID: cfg.StationID,
		}, logger)
		go func() {
			if err := tc.Connect(ctx); err != nil {
				logger.Warn("mqtt connect failed; readings are not published", "error", err)
			}
		}()
		defer tc.Disconnect()
		sinks = append(sinks, tc)
	}
	if cfg.Gauge {
		g := gauge.New(nil)
		defer g.Halt()
		sinks = append(sinks, g)
	}

	loop := sampler.New(bus.NewI2C(b), cfg.Sampler, sampler.WithLogger(logger), sampler.WithSinks(sinks...))
	return loop.Run(ctx)
}
