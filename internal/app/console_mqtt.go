// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/drone_telemetry/internal/config"
	"github.com/relabs-tech/drone_telemetry/internal/panel"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// RunConsoleMQTT prints the status block for every snapshot mirrored on
// the telemetry topic until ctx is done.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if cfg.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required for the MQTT console")
	}
	client, err := connectMQTT(cfg, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	token := client.Subscribe(cfg.TopicTelemetry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		if err := printTelemetry(w, msg.Payload(), time.Now()); err != nil {
			log.Printf("console: %v", err)
		}
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicTelemetry)

	<-ctx.Done()
	log.Println("console: shutting down")
	return nil
}

func printTelemetry(w io.Writer, payload []byte, now time.Time) error {
	var s telemetry.Snapshot
	if err := json.Unmarshal(payload, &s); err != nil {
		return fmt.Errorf("telemetry unmarshal error: %w", err)
	}
	_, err := fmt.Fprintf(w, "---- %s ----\n%s\n", s.Label(), strings.Join(panel.StatusLines(s, now), "\n"))
	return err
}
