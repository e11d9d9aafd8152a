// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/jongio/image-viewer-proxy/pathutil"
	"github.com/jongio/image-viewer-proxy/security"
)

// Configuration keys. panel_path is accepted as an alias of server_path.
const (
	KeyAppPath    = "app_path"
	KeyServerPath = "server_path"
	KeyPanelPath  = "panel_path"
)

// ConfigFilePath returns <root>/etc/image_viewer_jupyter_proxy.json.
func ConfigFilePath(root string) string {
	return filepath.Join(root, "etc", ConfigFileName)
}

// ConfigFileStrategy reads paths from a JSON configuration file.
// A missing file is not an error.
type ConfigFileStrategy struct {
	Path string
}

func (s ConfigFileStrategy) Name() string { return "config-file" }

func (s ConfigFileStrategy) Resolve(p *Paths) error {
	if _, err := os.Stat(s.Path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	// The file picks the executable that receives the token.
	if err := security.ValidateFilePermissions(s.Path); err != nil {
		return fmt.Errorf("refusing %s: %w", s.Path, err)
	}

	v := viper.New()
	v.SetConfigFile(s.Path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	if p.App == "" {
		p.App = v.GetString(KeyAppPath)
	}
	if p.Server == "" {
		p.Server = v.GetString(KeyServerPath)
	}
	if p.Server == "" {
		p.Server = v.GetString(KeyPanelPath)
	}
	return nil
}

// PackageStrategy finds the application entry file of an installed viewer
// package under Prefix.
type PackageStrategy struct {
	Prefix string
}

func (s PackageStrategy) Name() string { return "package" }

func (s PackageStrategy) Resolve(p *Paths) error {
	if p.App != "" || s.Prefix == "" {
		return nil
	}
	for _, candidate := range s.candidates() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			p.App = candidate
			return nil
		}
	}
	return nil
}

func (s PackageStrategy) candidates() []string {
	out := []string{filepath.Join(s.Prefix, "share", "image-viewer", "app.py")}
	if runtime.GOOS == "windows" {
		return append(out, filepath.Join(s.Prefix, "Lib", "site-packages", "image_viewer", "app.py"))
	}
	matches, _ := filepath.Glob(filepath.Join(s.Prefix, "lib", "python3*", "site-packages", "image_viewer", "app.py"))
	return append(out, matches...)
}

// ExecutableStrategy finds the serving executable on PATH, then in the bin
// directory of Prefix.
type ExecutableStrategy struct {
	Prefix     string
	Executable string
}

func (s ExecutableStrategy) Name() string { return "executable" }

func (s ExecutableStrategy) Resolve(p *Paths) error {
	if p.Server != "" {
		return nil
	}
	name := s.Executable
	if name == "" {
		name = ServerExecutable
	}
	if found := pathutil.FindToolInPath(name); found != "" {
		p.Server = found
		return nil
	}
	if s.Prefix != "" {
		p.Server = pathutil.SearchToolInDirs(name, pathutil.BinDir(s.Prefix))
	}
	return nil
}
