// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package spawn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PollInterval is the delay between readiness probes.
const PollInterval = 200 * time.Millisecond

// WaitReady polls url with headers until it answers with a status below 500.
// It fails early when the child exits and gives up after timeout.
func (p *Process) WaitReady(ctx context.Context, url string, headers map[string]string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: 2 * time.Second}
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		attempts++
		if probe(ctx, client, url, headers) {
			p.log.Info("process ready", "pid", p.PID(), "attempts", attempts)
			return nil
		}

		select {
		case <-p.done:
			return fmt.Errorf("%w before becoming ready: %v", ErrExited, p.err)
		case <-ctx.Done():
			return fmt.Errorf("process did not become ready within %s: %w", timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

func probe(ctx context.Context, client *http.Client, url string, headers map[string]string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}
