// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/internal/config"
)

func TestNew_Prod(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo, StationID: "attic"}
	l := New(&buf, cfg, "v1.2.3", "thermolog")
	l.Debug("hidden")
	l.Info("stored", "temperature", "25.08°C")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatal(err)
	}
	for k, v := range map[string]string{
		"msg":         "stored",
		"app":         "thermolog",
		"version":     "v1.2.3",
		"env":         "prod",
		"station_id":  "attic",
		"temperature": "25.08°C",
	} {
		if rec[k] != v {
			t.Errorf("%s = %v, expected %q", k, rec[k], v)
		}
	}
}

func TestNew_Dev(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{AppEnv: "dev", LogLevel: slog.LevelDebug}
	l := New(&buf, cfg, "dev", "thermolog")
	l.Debug("calibration loaded", "t1", 27504)
	out := buf.String()
	if !strings.Contains(out, "calibration loaded") || !strings.Contains(out, "27504") || !strings.Contains(out, "thermolog") {
		t.Errorf("unexpected output %q", out)
	}
}
