// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/drone_telemetry/internal/config"
	"github.com/relabs-tech/drone_telemetry/internal/history"
	"github.com/relabs-tech/drone_telemetry/internal/panel"
	"github.com/relabs-tech/drone_telemetry/internal/telemetry"
)

// ssd1306Addr is the only address the upstream I2C driver talks to.
const ssd1306Addr = 0x3C

// oledRenderer draws one content page per cycle on an SSD1306.
type oledRenderer struct {
	bus     i2c.BusCloser
	dev     *ssd1306.Dev
	content string
}

func openDisplay(cfg *config.Config) (*oledRenderer, error) {
	if cfg.DisplayI2CAddr != ssd1306Addr {
		return nil, fmt.Errorf("display: unsupported I2C address 0x%02X (want 0x%02X)", cfg.DisplayI2CAddr, ssd1306Addr)
	}

	// Initialize periph
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.DisplayI2CBus)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", cfg.DisplayI2CBus, err)
	}

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X on bus %s showing %s", cfg.DisplayI2CAddr, cfg.DisplayI2CBus, cfg.DisplayContent)

	r := &oledRenderer{bus: bus, dev: dev, content: cfg.DisplayContent}
	if err := r.draw(nil); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}
	return r, nil
}

func (r *oledRenderer) Render(snap telemetry.Snapshot, _ []history.Entry) error {
	return r.draw(&snap)
}

func (r *oledRenderer) draw(snap *telemetry.Snapshot) error {
	img, err := panel.OLEDFrame(r.content, snap)
	if err != nil {
		return err
	}
	return r.dev.Draw(r.dev.Bounds(), img, image.Point{})
}

func (r *oledRenderer) Close() error {
	if err := r.dev.Halt(); err != nil {
		log.Printf("display: halt error: %v", err)
	}
	return r.bus.Close()
}
