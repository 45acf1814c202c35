// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package telemetry publishes stored readings to an MQTT broker.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/AntonioCC147/PM-Portable-Air-Quality-Measurement-System/sampler"
)

const publishTimeout = 5 * time.Second

// ErrNotConnected is returned by Publish while the broker is unreachable.
var ErrNotConnected = errors.New("telemetry: mqtt client not connected")

// Options configures a Client.
type Options struct {
	Broker    string
	Port      int
	ClientID  string
	StationID string
}

// Message is the JSON payload published for each reading.
type Message struct {
	StationID    string    `json:"station_id"`
	Timestamp    time.Time `json:"timestamp"`
	Temperature  float64   `json:"temperature_c"`
	CentiCelsius int32     `json:"centi_celsius"`
	Sequence     uint64    `json:"sequence"`
}

// NewMessage converts r into the published payload.
func NewMessage(stationID string, r sampler.Reading) Message {
	return Message{
		StationID:    stationID,
		Timestamp:    r.Time.UTC(),
		Temperature:  float64(r.Temperature) / 100,
		CentiCelsius: int32(r.Temperature),
		Sequence:     r.Seq,
	}
}

// Topic returns the telemetry topic of a station.
func Topic(stationID string) string {
	return fmt.Sprintf("stations/%s/telemetry", stationID)
}

// Client is a sampler.Sink publishing over MQTT.
type Client struct {
	client    mqtt.Client
	opts      Options
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewClient returns a disconnected Client. Call Connect before publishing.
func NewClient(o Options, logger *slog.Logger) *Client {
	c := &Client{
		opts:   o,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", o.Broker, o.Port))
	opts.SetClientID(o.ClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", o.Broker, "port", o.Port)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c
}

// Connect waits for the first connection to the broker. It returns when
// connected, when ctx is done or when Disconnect is called.
func (c *Client) Connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return errors.New("telemetry: client stopped")
	default:
	}
	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("telemetry: mqtt connect: %w", err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			return errors.New("telemetry: client stopped")
		default:
		}
	}
}

// Publish implements sampler.Sink.
func (c *Client) Publish(ctx context.Context, r sampler.Reading) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	topic := Topic(c.opts.StationID)
	data, err := json.Marshal(NewMessage(c.opts.StationID, r))
	if err != nil {
		return fmt.Errorf("telemetry: marshal: %w", err)
	}

	token := c.client.Publish(topic, 1, false, data)
	timeout := publishTimeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("telemetry: publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("telemetry: publish: %w", err)
	}
	c.logger.Debug("published telemetry", "topic", topic, "seq", r.Seq)
	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

// Disconnect stops the client. It is safe to call more than once.
func (c *Client) Disconnect() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	if c.client != nil {
		c.client.Disconnect(250)
	}
	c.setConnected(false)
	c.logger.Info("mqtt disconnected")
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

var _ sampler.Sink = &Client{}
