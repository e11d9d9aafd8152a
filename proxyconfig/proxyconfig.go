// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package proxyconfig

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jongio/image-viewer-proxy/launcher"
	"github.com/jongio/image-viewer-proxy/logutil"
	"github.com/jongio/image-viewer-proxy/token"
)

const (
	// HeaderName is the request header that carries the token.
	HeaderName = "X-Api-Key"
	// DefaultTimeout is how long, in seconds, the host waits for the viewer.
	DefaultTimeout = 90
)

// LauncherEntry controls the notebook launcher tile.
type LauncherEntry struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// Config is the proxy configuration handed to the hosting server.
type Config struct {
	// Command returns the argv for the given port.
	Command func(port int) []string
	// Timeout in seconds.
	Timeout                int
	RequestHeadersOverride map[string]string
	NewBrowserTab          bool
	LauncherEntry          LauncherEntry

	launch *Launch
}

// Launch returns the launch state behind this configuration.
func (c *Config) Launch() *Launch {
	return c.launch
}

// document is the serialized form. The command is emitted as a template.
type document struct {
	Command                []string          `json:"command" yaml:"command"`
	Timeout                int               `json:"timeout" yaml:"timeout"`
	RequestHeadersOverride map[string]string `json:"request_headers_override" yaml:"request_headers_override"`
	NewBrowserTab          bool              `json:"new_browser_tab" yaml:"new_browser_tab"`
	LauncherEntry          LauncherEntry     `json:"launcher_entry" yaml:"launcher_entry"`
}

func (c *Config) document() document {
	var cmd []string
	if c.launch != nil {
		cmd = c.launch.CommandTemplate()
	}
	return document{
		Command:                cmd,
		Timeout:                c.Timeout,
		RequestHeadersOverride: c.RequestHeadersOverride,
		NewBrowserTab:          c.NewBrowserTab,
		LauncherEntry:          c.LauncherEntry,
	}
}

// MarshalJSON implements json.Marshaler.
func (c *Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.document())
}

// MarshalYAML implements yaml.Marshaler.
func (c *Config) MarshalYAML() (any, error) {
	return c.document(), nil
}

// YAML returns the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.document())
}

// Options customizes Setup. The zero value uses the default resolver and
// the system temporary directory.
type Options struct {
	Resolver *launcher.Resolver
	Store    token.Store
	// Timeout overrides DefaultTimeout when positive.
	Timeout int
}

var log = logutil.NewLogger("proxyconfig")

// Setup resolves the launch paths, then mints and persists one token and
// returns the configuration that carries it. Paths are resolved first so a
// failed lookup leaves nothing on disk.
func Setup(opts Options) (*Config, error) {
	resolver := opts.Resolver
	if resolver == nil {
		var err error
		if resolver, err = launcher.DefaultResolver(); err != nil {
			return nil, err
		}
	}

	paths, err := resolver.Resolve()
	if err != nil {
		return nil, err
	}

	tok, err := token.Mint()
	if err != nil {
		return nil, fmt.Errorf("failed to mint token: %w", err)
	}
	loc, err := opts.Store.Persist(tok)
	if err != nil {
		return nil, err
	}

	launch := &Launch{
		id:       uuid.NewString(),
		token:    tok,
		location: loc,
		paths:    paths,
	}
	log.WithLaunch(launch.id).Info("launch prepared",
		"token_dir", loc.Dir, "app", paths.App, "server", paths.Server)

	timeout := DefaultTimeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	return &Config{
		Command:                launch.Command,
		Timeout:                timeout,
		RequestHeadersOverride: map[string]string{HeaderName: tok},
		NewBrowserTab:          true,
		LauncherEntry:          LauncherEntry{Enabled: false},
		launch:                 launch,
	}, nil
}

// SetupProxyConfig is Setup with default options. It is the entry point a
// hosting integration calls once per viewer.
func SetupProxyConfig() (*Config, error) {
	return Setup(Options{})
}
