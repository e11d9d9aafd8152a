// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package viewer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jongio/image-viewer-proxy/authn"
	"github.com/jongio/image-viewer-proxy/logutil"
	"github.com/jongio/image-viewer-proxy/security"
)

// DefaultBind keeps the viewer reachable only through the local proxy.
const DefaultBind = "127.0.0.1"

// ServerConfig holds the configuration for the viewer server.
type ServerConfig struct {
	// Port to listen on. Use 0 for auto-assign.
	Port int
	// Bind address. Empty string means DefaultBind.
	Bind string
	// AppPath is the application: a directory served as a single-page app,
	// or a single file served at the root.
	AppPath string
	// Provider authenticates every request.
	Provider *authn.TokenProvider
	// AllowedOrigins lists host[:port] values accepted for websocket
	// upgrades. "*" accepts any origin.
	AllowedOrigins []string
	// OnReady is called after the server starts listening, with the actual port.
	OnReady func(port int)
}

// Server serves the viewer application behind token authentication.
type Server struct {
	Config ServerConfig

	port       int
	httpServer *http.Server
	listener   net.Listener
	done       chan struct{} // closed when the serve goroutine exits
	stopOnce   sync.Once
	log        *logutil.ComponentLogger
}

// NewServer returns a server for cfg. Call Start to listen.
func NewServer(cfg ServerConfig) *Server {
	return &Server{Config: cfg, log: logutil.NewLogger("viewer")}
}

// Port returns the actual port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Done is closed once the server has stopped serving.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

func (s *Server) validate() error {
	if s.Config.Provider == nil {
		return errors.New("viewer: an auth provider is required")
	}
	if err := security.ValidatePath(s.Config.AppPath); err != nil {
		return fmt.Errorf("viewer: invalid application path: %w", err)
	}
	if _, err := os.Stat(s.Config.AppPath); err != nil {
		return fmt.Errorf("viewer: application not found: %w", err)
	}
	return nil
}

// Start validates the configuration, starts listening in a background
// goroutine and calls OnReady with the actual port. The server shuts down
// when ctx is canceled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	if s.log == nil {
		s.log = logutil.NewLogger("viewer")
	}
	if err := s.validate(); err != nil {
		return err
	}

	handler, err := s.Handler()
	if err != nil {
		return err
	}

	bind := s.Config.Bind
	if bind == "" {
		bind = DefaultBind
	}

	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	addr := net.JoinHostPort(bind, fmt.Sprint(s.Config.Port))
	s.listener, err = net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	tcpAddr, ok := s.listener.Addr().(*net.TCPAddr)
	if !ok {
		_ = s.listener.Close()
		return fmt.Errorf("listener address is not a TCP address")
	}
	s.port = tcpAddr.Port

	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("viewer server error", "error", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	s.log.Info("viewer listening", "addr", s.listener.Addr().String(), "app", s.Config.AppPath)

	if s.Config.OnReady != nil {
		s.Config.OnReady(s.port)
	}
	return nil
}

// Stop gracefully shuts down the server. It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				s.log.Warn("viewer server shutdown error", "error", err)
			}
		}
		// Ensure listener is closed even if Shutdown didn't do it
		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !strings.Contains(err.Error(), "use of closed") {
				s.log.Warn("viewer listener close error", "error", err)
			}
		}
		if s.done != nil {
			select {
			case <-s.done:
			case <-time.After(5 * time.Second):
				s.log.Warn("viewer server goroutine did not exit within 5s")
			}
		}
	})
}
