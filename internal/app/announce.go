// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"

	"github.com/grandcat/zeroconf"
)

const (
	mdnsService = "_http._tcp"
	mdnsDomain  = "local."
)

// announceDashboard advertises the dashboard over mDNS. Callers must
// Shutdown the returned server.
func announceDashboard(instance string, port int, sessionID string) (*zeroconf.Server, error) {
	txt := []string{"path=/", "session=" + sessionID}
	srv, err := zeroconf.Register(instance, mdnsService, mdnsDomain, port, txt, nil)
	if err != nil {
		return nil, fmt.Errorf("mDNS register: %w", err)
	}
	log.Printf("mdns: announced %q as %s.%s port %d", instance, mdnsService, mdnsDomain, port)
	return srv, nil
}
