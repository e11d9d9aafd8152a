// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package launcher

import (
	"errors"
	"fmt"
	"os"

	"github.com/jongio/image-viewer-proxy/logutil"
	"github.com/jongio/image-viewer-proxy/pathutil"
)

const (
	// EnvRoot overrides the install prefix used for every lookup.
	EnvRoot = "IMAGE_VIEWER_ROOT"
	// ConfigFileName is the JSON launch configuration under <root>/etc.
	ConfigFileName = "image_viewer_jupyter_proxy.json"
	// ServerExecutable is the program that serves the viewer application.
	ServerExecutable = "panel"
)

// Component names a path the launcher needs.
type Component string

const (
	ComponentApplication Component = "application"
	ComponentServer      Component = "server"
)

// ErrResolution is matched by every *ResolutionError.
var ErrResolution = errors.New("launch path resolution failed")

// ResolutionError reports which component could not be located.
type ResolutionError struct {
	Missing Component
	// Hint is an install suggestion, set for a missing server.
	Hint string
}

func (e *ResolutionError) Error() string {
	switch e.Missing {
	case ComponentApplication:
		return "could not find image-viewer in configuration or installed in this environment"
	case ComponentServer:
		msg := "could not find " + ServerExecutable + " installation in configuration or installed in this environment"
		if e.Hint != "" {
			msg += " (" + e.Hint + ")"
		}
		return msg
	default:
		return fmt.Sprintf("could not find %s", e.Missing)
	}
}

// Is reports whether target is ErrResolution.
func (e *ResolutionError) Is(target error) bool {
	return target == ErrResolution
}

// Paths holds the resolved application entry and serving executable.
type Paths struct {
	App    string `json:"app_path" yaml:"app_path"`
	Server string `json:"server_path" yaml:"server_path"`
}

func (p Paths) complete() bool {
	return p.App != "" && p.Server != ""
}

// Strategy fills in whichever fields of Paths it can. Implementations must
// leave fields that are already set untouched.
type Strategy interface {
	Name() string
	Resolve(p *Paths) error
}

// Resolver runs strategies in order until both paths are known.
type Resolver struct {
	Strategies []Strategy

	log *logutil.ComponentLogger
}

// NewResolver returns a Resolver with the given strategies.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{
		Strategies: strategies,
		log:        logutil.NewLogger("launcher"),
	}
}

// Root returns $IMAGE_VIEWER_ROOT, or the install prefix of the running
// executable when it is unset.
func Root() (string, error) {
	if root := os.Getenv(EnvRoot); root != "" {
		return root, nil
	}
	return pathutil.ExecutablePrefix()
}

// DefaultStrategies returns the standard lookup order under root: the JSON
// configuration file, then the installed package, then the executable search.
func DefaultStrategies(root string) []Strategy {
	return []Strategy{
		ConfigFileStrategy{Path: ConfigFilePath(root)},
		PackageStrategy{Prefix: root},
		ExecutableStrategy{Prefix: root, Executable: ServerExecutable},
	}
}

// DefaultResolver builds a Resolver over DefaultStrategies(Root()).
func DefaultResolver() (*Resolver, error) {
	root, err := Root()
	if err != nil {
		return nil, fmt.Errorf("failed to determine install root: %w", err)
	}
	return NewResolver(DefaultStrategies(root)...), nil
}

// Resolve returns the first value found for each path. A missing application
// is reported before a missing server.
func (r *Resolver) Resolve() (Paths, error) {
	var p Paths
	for _, s := range r.Strategies {
		if p.complete() {
			break
		}
		if err := s.Resolve(&p); err != nil {
			r.log.Warn("path strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		r.log.Debug("path strategy applied", "strategy", s.Name(), "app", p.App, "server", p.Server)
	}

	if p.App == "" {
		return Paths{}, &ResolutionError{Missing: ComponentApplication}
	}
	if p.Server == "" {
		return Paths{}, &ResolutionError{
			Missing: ComponentServer,
			Hint:    pathutil.GetInstallSuggestion(ServerExecutable),
		}
	}
	return p, nil
}
