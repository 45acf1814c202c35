// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config reads the thermolog configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/bus"
	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/sampler"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	// I2CBus is the periph bus name; empty selects the first bus.
	I2CBus  string
	Sampler sampler.Config

	// MQTTBroker enables telemetry when not empty.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	StationID    string

	Gauge bool
}

// LoadFromEnv reads Config from the process environment.
func LoadFromEnv() (Config, error) {
	return Load(os.Getenv)
}

// Load reads Config using getenv, applying defaults for unset variables.
func Load(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	appEnv := get("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(get("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	s := sampler.DefaultConfig
	if s.SensorAddr, err = parseAddr("SENSOR_ADDRESS", get("SENSOR_ADDRESS", "0x76")); err != nil {
		return Config{}, err
	}
	if s.StoreAddr, err = parseAddr("STORE_ADDRESS", get("STORE_ADDRESS", "0x50")); err != nil {
		return Config{}, err
	}
	if s.SensorAddr == s.StoreAddr {
		return Config{}, fmt.Errorf("SENSOR_ADDRESS and STORE_ADDRESS are both 0x%02x", s.SensorAddr)
	}

	mode, err := strconv.ParseUint(get("SENSOR_MODE", "0x43"), 0, 8)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SENSOR_MODE %q: %w", getenv("SENSOR_MODE"), err)
	}
	s.SensorMode = byte(mode)

	offset, err := strconv.ParseUint(get("STORE_OFFSET", "0xACDC"), 0, 16)
	if err != nil {
		return Config{}, fmt.Errorf("invalid STORE_OFFSET %q: %w", getenv("STORE_OFFSET"), err)
	}
	s.Offset = uint16(offset)

	periodStr := get("SAMPLE_PERIOD", "1s")
	s.Period, err = time.ParseDuration(periodStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SAMPLE_PERIOD %q: %w", periodStr, err)
	}
	if s.Period <= 0 {
		return Config{}, fmt.Errorf("SAMPLE_PERIOD must be positive, got %v", s.Period)
	}

	if s.ReadBack, err = strconv.ParseBool(get("READBACK", "true")); err != nil {
		return Config{}, fmt.Errorf("invalid READBACK %q: %w", getenv("READBACK"), err)
	}

	portStr := get("MQTT_PORT", "1883")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q", portStr)
	}

	gauge, err := strconv.ParseBool(get("GAUGE", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid GAUGE %q: %w", getenv("GAUGE"), err)
	}

	return Config{
		AppEnv:       appEnv,
		LogLevel:     level,
		I2CBus:       strings.TrimSpace(getenv("I2C_BUS")),
		Sampler:      s,
		MQTTBroker:   strings.TrimSpace(getenv("MQTT_BROKER")),
		MQTTPort:     port,
		MQTTClientID: get("MQTT_CLIENT_ID", "thermolog"),
		StationID:    get("STATION_ID", "lab"),
		Gauge:        gauge,
	}, nil
}

func parseAddr(key, s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if v > uint64(bus.MaxAddr) {
		return 0, fmt.Errorf("invalid %s %q: not a 7-bit address", key, s)
	}
	return uint16(v), nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
