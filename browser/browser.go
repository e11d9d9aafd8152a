// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package browser opens the proxied viewer in the user's web browser.
package browser

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	pkgbrowser "github.com/pkg/browser"

	"github.com/jongio/image-viewer-proxy/logutil"
)

// Target represents the browser target for launching URLs.
type Target string

const (
	// TargetDefault uses the system default browser
	TargetDefault Target = "default"
	// TargetNone disables browser launching
	TargetNone Target = "none"
)

// ValidTargets returns all valid browser target values.
func ValidTargets() []Target {
	return []Target{TargetDefault, TargetNone}
}

// IsValid checks if a target string is valid.
func IsValid(target string) bool {
	for _, valid := range ValidTargets() {
		if Target(target) == valid {
			return true
		}
	}
	return false
}

// FormatValidTargets returns a comma-separated list of valid targets.
func FormatValidTargets() string {
	targets := ValidTargets()
	strs := make([]string, len(targets))
	for i, t := range targets {
		strs[i] = string(t)
	}
	return strings.Join(strs, ", ")
}

// LaunchOptions contains options for launching a browser.
type LaunchOptions struct {
	// URL to open
	URL string
	// Target browser to use
	Target Target
	// Timeout after which a hung launcher is abandoned (default 5 seconds)
	Timeout time.Duration
}

// openURL is replaced in tests.
var openURL = pkgbrowser.OpenURL

var log = logutil.NewLogger("browser")

func init() {
	// xdg-open and friends are chatty on stdout, which is reserved for command output.
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}

// Launch opens the URL in the browser determined by the target.
// It does not block: failures are logged as warnings, since the viewer is
// reachable without a browser.
func Launch(opts LaunchOptions) error {
	if err := validateURL(opts.URL); err != nil {
		return err
	}
	if opts.Target == TargetNone {
		return nil
	}
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}

	go func() {
		if err := launchSync(opts.URL, opts.Timeout); err != nil {
			log.Warn("could not open browser automatically", "error", err)
		}
	}()
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: URL must start with http:// or https://")
	}
	if u.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}
	return nil
}

// launchSync waits for the opener up to timeout.
func launchSync(rawURL string, timeout time.Duration) error {
	done := make(chan error, 1)
	go func() { done <- openURL(rawURL) }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("browser launch timed out after %s", timeout)
	}
}
