// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jongio/image-viewer-proxy/cliout"
	"github.com/jongio/image-viewer-proxy/logutil"
	"github.com/jongio/image-viewer-proxy/version"
)

const (
	binaryName = "image-viewer-proxy"
	envPrefix  = "IMAGE_VIEWER"
)

// Global flag keys. Each can also be set as IMAGE_VIEWER_<KEY>, with dashes
// replaced by underscores.
const (
	keyDebug     = "debug"
	keyLogFormat = "log-format"
	keyLogLevel  = "log-level"
	keyOutput    = "output"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   binaryName,
		Short: "Launch the image viewer behind a token-authenticated notebook proxy",
		Long: `image-viewer-proxy locates the image viewer, mints a one-time access token
and hands it to both the viewer process and the proxy that fronts it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configure(v)
		},
	}

	if err := bindGlobalFlags(v, root.PersistentFlags()); err != nil {
		panic(err)
	}

	root.AddCommand(
		newConfigCmd(),
		newServeCmd(),
		newRunCmd(),
		version.NewCommand(version.New(binaryName)),
	)
	return root
}

func bindGlobalFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	flags.Bool(keyDebug, false, "Enable debug logging")
	flags.String(keyLogFormat, "text", "Log format: text or json")
	flags.String(keyLogLevel, "info", "Log level: debug, info, warn or error (--debug implies debug)")
	flags.StringP(keyOutput, "o", "default", "Output format: default, json or yaml")
	return v.BindPFlags(flags)
}

// configure applies the global flags to the logger and the output format.
func configure(v *viper.Viper) error {
	var structured bool
	switch format := strings.ToLower(v.GetString(keyLogFormat)); format {
	case "text", "":
	case "json":
		structured = true
	default:
		return fmt.Errorf("invalid log format: %s (valid options: text, json)", format)
	}

	level := strings.ToLower(v.GetString(keyLogLevel))
	switch level {
	case "debug", "info", "", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s (valid options: debug, info, warn, error)", level)
	}

	debug := v.GetBool(keyDebug)
	logutil.SetupLogger(debug, structured)
	if !debug {
		logutil.SetLevel(logutil.ParseLevel(level))
	}

	return cliout.SetFormat(v.GetString(keyOutput))
}
