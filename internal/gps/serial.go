// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cenkalti/backoff"
	serial "github.com/jacobsa/go-serial/serial"
)

// Feed writes NMEA sentences to a ground-station link, typically a
// serial port emulating a GPS receiver.
type Feed struct {
	w io.WriteCloser
}

// NewFeed wraps an already opened writer.
func NewFeed(w io.WriteCloser) *Feed {
	return &Feed{w: w}
}

// OpenSerialFeed opens portName at baud, retrying with exponential backoff
// up to retries times.
func OpenSerialFeed(portName string, baud int, retries uint64) (*Feed, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baud),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	var port io.ReadWriteCloser
	open := func() error {
		p, err := serial.Open(opts)
		if err != nil {
			log.Printf("gps: serial open %s failed: %v", portName, err)
			return err
		}
		port = p
		return nil
	}
	if err := backoff.Retry(open, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries)); err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	log.Printf("gps: serial port opened on %s at %d baud", portName, baud)
	return NewFeed(port), nil
}

// Send writes an RMC and a GGA sentence for pos, CRLF terminated.
func (f *Feed) Send(pos Position, courseDeg float64, t time.Time) error {
	if _, err := io.WriteString(f.w, RMC(pos, courseDeg, t)+"\r\n"+GGA(pos, t)+"\r\n"); err != nil {
		return fmt.Errorf("write NMEA: %w", err)
	}
	return nil
}

func (f *Feed) Close() error {
	return f.w.Close()
}
