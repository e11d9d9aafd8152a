// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package proxyconfig

import (
	"github.com/jongio/image-viewer-proxy/launcher"
	"github.com/jongio/image-viewer-proxy/token"
)

// Launch owns the credential and paths of one proxied viewer. Everything it
// holds is fixed at creation, so every command it builds carries the same
// token location.
type Launch struct {
	id       string
	token    string
	location token.Location
	paths    launcher.Paths
}

// ID returns the launch identifier used to correlate log lines.
func (l *Launch) ID() string { return l.id }

// Token returns the access token.
//
// SECURITY: Never log the returned value.
func (l *Launch) Token() string { return l.token }

// Location returns where the token was persisted.
func (l *Launch) Location() token.Location { return l.location }

// Paths returns the resolved application and server paths.
func (l *Launch) Paths() launcher.Paths { return l.paths }

// Command returns the argv that starts the viewer on port.
func (l *Launch) Command(port int) []string {
	return launcher.BuildCommand(port, l.paths, l.location.Path)
}

// CommandTemplate returns the argv with the port placeholder.
func (l *Launch) CommandTemplate() []string {
	return launcher.CommandTemplate(l.paths, l.location.Path)
}
