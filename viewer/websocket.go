// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package viewer

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jongio/image-viewer-proxy/authn"
)

var wsConnections = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "image_viewer_websocket_connections",
	Help: "Open websocket connections to the viewer",
})

// originAllowed reports whether the Origin of r matches one of allowed.
// Requests without an Origin header come from non-browser clients and are
// accepted; the token check has already run.
func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	if len(allowed) == 0 {
		return strings.EqualFold(u.Host, r.Host)
	}
	for _, a := range allowed {
		a = strings.TrimSpace(a)
		if a == "*" || strings.EqualFold(a, u.Host) {
			return true
		}
		// An entry without a port matches the host on any port.
		if _, _, err := net.SplitHostPort(a); err != nil && strings.EqualFold(a, u.Hostname()) {
			return true
		}
	}
	return false
}

func (s *Server) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r, s.Config.AllowedOrigins)
		},
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = c.Close() }()

	wsConnections.Inc()
	defer wsConnections.Dec()

	id, _ := authn.IdentityFromContext(r.Context())
	s.log.Debug("websocket connected", "identity", string(id))

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read error", "error", err)
			}
			break
		}

		// Keepalive
		if messageType == websocket.TextMessage && string(message) == "PING" {
			if err := c.WriteMessage(websocket.TextMessage, []byte("PONG")); err != nil {
				s.log.Debug("failed to send pong", "error", err)
				break
			}
			continue
		}

		s.log.Debug("ignoring websocket message", "type", messageType, "bytes", len(message))
	}

	s.log.Debug("websocket disconnected", "identity", string(id))
}
