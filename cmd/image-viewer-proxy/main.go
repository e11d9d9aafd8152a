// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Command image-viewer-proxy prepares, serves and supervises the image viewer
// behind a notebook proxy.
//
// A hosting integration runs "image-viewer-proxy config" to obtain the proxy
// configuration. The launch command in that configuration starts
// "<server> serve", which only answers requests carrying the launch token.
// "image-viewer-proxy run" performs both roles on a workstation without a
// notebook server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jongio/image-viewer-proxy/cliout"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		cliout.Error("%v", err)
		os.Exit(1)
	}
}
