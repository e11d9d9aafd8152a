// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jongio/image-viewer-proxy/cliout"
	"github.com/jongio/image-viewer-proxy/fileutil"
	"github.com/jongio/image-viewer-proxy/proxyconfig"
	"github.com/jongio/image-viewer-proxy/security"
)

func newConfigCmd() *cobra.Command {
	var (
		timeout int
		save    string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Mint a launch token and print the proxy configuration",
		Long: `config resolves the viewer application and serving executable, writes a new
token file and prints the configuration a notebook proxy needs to launch the
viewer. Use --output json or --output yaml for machine-readable output, which
includes the token in request_headers_override. --save also writes the
document to a file readable only by the current user.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := proxyconfig.Setup(proxyconfig.Options{Timeout: timeout})
			if err != nil {
				return err
			}
			if save != "" {
				if err := saveConfig(cfg, save); err != nil {
					return err
				}
			}
			return printConfig(cfg)
		},
	}
	cmd.Flags().IntVar(&timeout, "timeout", proxyconfig.DefaultTimeout, "Seconds the host waits for the viewer to answer")
	cmd.Flags().StringVar(&save, "save", "", "Also write the configuration to this file (.json, .yaml or .yml)")
	return cmd
}

// saveConfig writes cfg as YAML or JSON, chosen by the file extension.
func saveConfig(cfg *proxyconfig.Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = cfg.YAML()
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := fileutil.EnsureDir(filepath.Dir(path), security.PrivateDirPermission); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	if err := fileutil.AtomicWriteFile(path, data, security.PrivateFilePermission); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// printConfig prints cfg. The human-readable form omits the token value.
func printConfig(cfg *proxyconfig.Config) error {
	launch := cfg.Launch()
	return cliout.Print(cfg, func() {
		cliout.Header("Proxy configuration")
		cliout.Label("Launch", launch.ID())
		cliout.Label("Command", strings.Join(launch.CommandTemplate(), " "))
		cliout.Label("Timeout", fmt.Sprintf("%ds", cfg.Timeout))
		cliout.Label("Token file", launch.Location().Path)
		cliout.Label("Header", proxyconfig.HeaderName)
		cliout.Hint("Use --output json to include the header value")
	})
}
