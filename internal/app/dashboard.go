// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/drone_telemetry/internal/config"
	"github.com/relabs-tech/drone_telemetry/internal/dashboard"
	"github.com/relabs-tech/drone_telemetry/internal/gps"
	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/refresh"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// RunDashboard runs the simulator behind the web dashboard plus whichever
// optional outputs are configured, until ctx is done.
func RunDashboard(ctx context.Context, cfg *config.Config) error {
	server := dashboard.NewServer()
	renderers := []refresh.Renderer{server}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				log.Printf("dashboard: close error: %v", err)
			}
		}
	}()

	// 1) MQTT mirror
	if cfg.MQTTBroker != "" {
		client, err := connectMQTT(cfg, fmt.Sprintf("%s-%.8s", cfg.MQTTClientIDPublisher, server.SessionID()))
		if err != nil {
			return err
		}
		defer client.Disconnect(250)
		renderers = append(renderers, &mqttMirror{client: client, topic: cfg.TopicTelemetry})
		log.Printf("dashboard: mirroring telemetry to %s", cfg.TopicTelemetry)
	}

	// 2) NMEA feed
	if cfg.GPSSerialPort != "" {
		feed, err := gps.OpenSerialFeed(cfg.GPSSerialPort, cfg.GPSBaudRate, uint64(cfg.ConnectRetries))
		if err != nil {
			return err
		}
		closers = append(closers, feed)
		renderers = append(renderers, gpsFeedRenderer{feed: feed})
	}

	// 3) OLED
	if cfg.DisplayI2CAddr != 0 {
		display, err := openDisplay(cfg)
		if err != nil {
			return err
		}
		closers = append(closers, display)
		renderers = append(renderers, display)
	}

	// 4) mDNS
	if cfg.MDNSEnabled {
		srv, err := announceDashboard(cfg.MDNSInstance, cfg.WebServerPort, server.SessionID())
		if err != nil {
			return err
		}
		defer srv.Shutdown()
	}

	gen := telemetry.NewGenerator(time.Now(), telemetry.NewRandSource(cfg.RandomSeed))
	loop := refresh.New(gen, history.New(cfg.HistoryCapacity),
		time.Duration(cfg.RefreshInterval)*time.Millisecond,
		refresh.WithRenderers(renderers...),
	)
	log.Printf("dashboard: session %s", server.SessionID())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.ListenAndServe(gctx, fmt.Sprintf(":%d", cfg.WebServerPort))
	})
	g.Go(func() error {
		return ignoreCancel(gctx, loop.Run(gctx))
	})
	return g.Wait()
}
