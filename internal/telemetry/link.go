// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package telemetry

import "fmt"

// LinkQuality is the categorical health of the command/telemetry radio link.
type LinkQuality int

const (
	LinkExcellent LinkQuality = iota
	LinkGood
	LinkPoor
	LinkNoSignal
)

// linkQualities is the re-roll set, in declaration order.
var linkQualities = [...]LinkQuality{LinkExcellent, LinkGood, LinkPoor, LinkNoSignal}

func (q LinkQuality) String() string {
	switch q {
	case LinkExcellent:
		return "Excellent"
	case LinkGood:
		return "Good"
	case LinkPoor:
		return "Poor"
	case LinkNoSignal:
		return "No Signal"
	default:
		return "Unknown"
	}
}

// Bars maps the quality onto a 0-3 signal bar count for gauges.
func (q LinkQuality) Bars() int {
	switch q {
	case LinkExcellent:
		return 3
	case LinkGood:
		return 2
	case LinkPoor:
		return 1
	default:
		return 0
	}
}

// ParseLinkQuality accepts the labels produced by String.
func ParseLinkQuality(s string) (LinkQuality, error) {
	for _, q := range linkQualities {
		if q.String() == s {
			return q, nil
		}
	}
	return LinkNoSignal, fmt.Errorf("unknown link quality %q", s)
}

func (q LinkQuality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *LinkQuality) UnmarshalText(b []byte) error {
	parsed, err := ParseLinkQuality(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
