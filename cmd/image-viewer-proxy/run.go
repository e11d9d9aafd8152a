// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jongio/image-viewer-proxy/browser"
	"github.com/jongio/image-viewer-proxy/cliout"
	"github.com/jongio/image-viewer-proxy/hostproxy"
	"github.com/jongio/image-viewer-proxy/logutil"
	"github.com/jongio/image-viewer-proxy/notify"
	"github.com/jongio/image-viewer-proxy/proxyconfig"
	"github.com/jongio/image-viewer-proxy/spawn"
)

type runOptions struct {
	port      int
	proxyPort int
	timeout   int
	browser   string
	noBrowser bool
	notify    bool
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch the viewer locally behind a header-injecting proxy",
		Long: `run does what a notebook proxy does with the output of "config": it starts
the launch command on a free port, waits for the viewer to answer, and serves
a local proxy that adds the token header to every request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !browser.IsValid(opts.browser) {
				return fmt.Errorf("invalid browser target %q (valid options: %s)", opts.browser, browser.FormatValidTargets())
			}
			return run(cmd.Context(), opts, proxyconfig.Options{Timeout: opts.timeout})
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.port, "port", 0, "Port for the viewer process (0 picks a free port)")
	flags.IntVar(&opts.proxyPort, "proxy-port", 0, "Port for the local proxy (0 picks a free port)")
	flags.IntVar(&opts.timeout, "timeout", proxyconfig.DefaultTimeout, "Seconds to wait for the viewer to answer")
	flags.StringVar(&opts.browser, "browser", string(browser.TargetDefault), "Browser target: "+browser.FormatValidTargets())
	flags.BoolVar(&opts.noBrowser, "no-browser", false, "Do not open a browser tab")
	flags.BoolVar(&opts.notify, "notify", false, "Show a desktop notification when the viewer is ready")
	return cmd
}

// run sets up a launch, supervises the viewer process and proxies to it
// until ctx is canceled or the viewer exits.
func run(ctx context.Context, opts runOptions, setup proxyconfig.Options) error {
	cfg, err := proxyconfig.Setup(setup)
	if err != nil {
		return err
	}
	launch := cfg.Launch()
	log := logutil.NewLogger("run").WithLaunch(launch.ID())

	port := opts.port
	if port == 0 {
		if port, err = spawn.FreePort(); err != nil {
			return err
		}
	}

	proc, err := spawn.Start(ctx, cfg.Command(port), spawn.Options{Logger: log})
	if err != nil {
		return err
	}
	defer func() {
		if proc.Running() {
			log.Info("stopping viewer", "pid", proc.PID())
		}
		if err := proc.Stop(); err != nil {
			log.Warn("failed to stop viewer", "error", err)
		}
	}()

	viewerURL := fmt.Sprintf("http://127.0.0.1:%d/", port)
	timeout := time.Duration(cfg.Timeout) * time.Second
	if err := proc.WaitReady(ctx, viewerURL, cfg.RequestHeadersOverride, timeout); err != nil {
		return fmt.Errorf("viewer did not start: %w", err)
	}

	target, err := url.Parse(viewerURL)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(opts.proxyPort)))
	if err != nil {
		return fmt.Errorf("failed to create proxy listener: %w", err)
	}
	server := &http.Server{
		Handler:           hostproxy.New(target, cfg.RequestHeadersOverride),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("proxy server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	proxyURL := fmt.Sprintf("http://%s/", listener.Addr())
	cliout.Success("Image viewer ready at %s", cliout.URL(proxyURL))
	log.Info("proxy listening", "addr", listener.Addr().String(), "viewer_port", port)

	openBrowser(opts, cfg, proxyURL)
	if opts.notify {
		sendReadyNotification(ctx, log, proxyURL)
	}

	select {
	case <-ctx.Done():
		return nil
	case <-proc.Done():
		return fmt.Errorf("%w: %v", spawn.ErrExited, proc.Err())
	}
}

func openBrowser(opts runOptions, cfg *proxyconfig.Config, proxyURL string) {
	target := browser.Target(opts.browser)
	if opts.noBrowser || !cfg.NewBrowserTab {
		target = browser.TargetNone
	}
	if err := browser.Launch(browser.LaunchOptions{URL: proxyURL, Target: target}); err != nil {
		cliout.Warning("Could not open a browser: %v", err)
	}
}

func sendReadyNotification(ctx context.Context, log *logutil.ComponentLogger, proxyURL string) {
	notifier, err := notify.New(notify.DefaultConfig())
	if err != nil {
		log.Warn("notifications unavailable", "error", err)
		return
	}
	defer func() { _ = notifier.Close() }()

	err = notifier.Send(ctx, notify.Notification{
		Title:   "Image viewer ready",
		Message: "The image viewer is running.",
		URL:     proxyURL,
	})
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
}
