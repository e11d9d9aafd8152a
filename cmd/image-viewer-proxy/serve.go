// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jongio/image-viewer-proxy/authn"
	"github.com/jongio/image-viewer-proxy/cliout"
	"github.com/jongio/image-viewer-proxy/token"
	"github.com/jongio/image-viewer-proxy/viewer"
)

// defaultServePort matches the port panel uses when none is given.
const defaultServePort = 5006

type serveOptions struct {
	app             string
	port            int
	bind            string
	origins         []string
	tokenFile       string
	deniedPerMinute int
	deniedBurst     int
}

func newServeCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve APP --args TOKENFILE",
		Short: "Serve the viewer application behind token authentication",
		Long: `serve is the serving executable side of the launch command. It reads the
token from TOKENFILE and answers only requests whose X-Api-Key header carries
it. APP is a directory served as a single-page app, or a single file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.app = args[0]
			return serve(cmd.Context(), opts, func(addr string) {
				cliout.Success("Viewer listening on %s", cliout.URL("http://"+addr+"/"))
			})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.port, "port", defaultServePort, "Port to listen on (0 picks a free port)")
	flags.StringVar(&opts.bind, "bind", viewer.DefaultBind, "Address to listen on")
	flags.StringArrayVar(&opts.origins, "allow-websocket-origin", nil, "Accepted websocket origin host[:port], or * for any (repeatable)")
	flags.StringVar(&opts.tokenFile, "args", "", "Path of the token file")
	flags.IntVar(&opts.deniedPerMinute, "denied-rate-limit", 30, "Denied requests per minute per client before answering 429 (0 disables)")
	flags.IntVar(&opts.deniedBurst, "denied-burst", 10, "Burst of denied requests allowed per client")
	_ = cmd.MarkFlagRequired("args")
	return cmd
}

// serve runs the viewer until ctx is canceled. onReady receives the listen
// address.
func serve(ctx context.Context, opts serveOptions, onReady func(addr string)) error {
	if opts.tokenFile == "" {
		return errors.New("a token file is required")
	}
	tok, err := token.Read(opts.tokenFile)
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	provider, err := authn.NewTokenProvider(tok, authn.WithDeniedRateLimit(opts.deniedPerMinute, opts.deniedBurst))
	if err != nil {
		return err
	}

	bind := opts.bind
	if bind == "" {
		bind = viewer.DefaultBind
	}
	srv := viewer.NewServer(viewer.ServerConfig{
		Port:           opts.port,
		Bind:           bind,
		AppPath:        opts.app,
		Provider:       provider,
		AllowedOrigins: opts.origins,
		OnReady: func(port int) {
			if onReady != nil {
				onReady(net.JoinHostPort(bind, strconv.Itoa(port)))
			}
		},
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-srv.Done()
	return nil
}
