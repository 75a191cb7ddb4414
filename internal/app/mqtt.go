// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/cenkalti/backoff"
	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/drone_telemetry/internal/config"
	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// publisher is the slice of mqtt.Client the mirror needs.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// mqttMirror republishes each snapshot as retained JSON.
type mqttMirror struct {
	client publisher
	topic  string
}

func (m *mqttMirror) Render(snap telemetry.Snapshot, _ []history.Entry) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("telemetry marshal: %w", err)
	}
	if token := m.client.Publish(m.topic, 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT publish (%s): %w", m.topic, token.Error())
	}
	return nil
}

// connectMQTT connects to the configured broker, retrying with backoff.
func connectMQTT(cfg *config.Config, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(clientID).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	connect := func() error {
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("mqtt: connect to %s failed: %v", cfg.MQTTBroker, token.Error())
			return token.Error()
		}
		return nil
	}
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.ConnectRetries))
	if err := backoff.Retry(connect, b); err != nil {
		return nil, fmt.Errorf("MQTT connect %s: %w", cfg.MQTTBroker, err)
	}
	log.Printf("mqtt: connected to broker at %s as %s", cfg.MQTTBroker, clientID)
	return client, nil
}
