// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package hostproxy is a minimal stand-in for the notebook proxy: it forwards
// requests to the viewer and sets the configured override headers on each
// one, including websocket upgrades.
//
// Upstream calls go through a circuit breaker. After consecutive transport
// failures or 5xx responses the proxy answers 503 without contacting the
// viewer until the breaker lets a trial request through again.
package hostproxy

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jongio/image-viewer-proxy/logutil"
)

// Breaker defaults.
const (
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 10 * time.Second
)

// errUpstreamStatus marks a 5xx response as a breaker failure. The response
// itself is still returned to the client.
var errUpstreamStatus = errors.New("viewer answered with a server error")

type options struct {
	failures uint32
	timeout  time.Duration
}

// Option configures New.
type Option func(*options)

// WithBreaker opens the breaker after failures consecutive upstream failures
// and keeps it open for timeout. failures <= 0 disables the breaker.
func WithBreaker(failures int, timeout time.Duration) Option {
	return func(o *options) {
		if failures <= 0 {
			o.failures = 0
			return
		}
		o.failures = uint32(failures)
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// New returns a reverse proxy to target that sets every header in headers on
// each forwarded request, replacing any value sent by the client.
func New(target *url.URL, headers map[string]string, opts ...Option) http.Handler {
	log := logutil.NewLogger("hostproxy")
	o := options{failures: DefaultBreakerFailures, timeout: DefaultBreakerTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	overrides := make(map[string]string, len(headers))
	for k, v := range headers {
		overrides[http.CanonicalHeaderKey(k)] = v
	}

	var transport http.RoundTripper = http.DefaultTransport
	if o.failures > 0 {
		transport = newBreakerTransport(transport, target.Host, o, log)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			pr.Out.Host = target.Host
			for k, v := range overrides {
				pr.Out.Header.Set(k, v)
			}
		},
		Transport: transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				log.Debug("proxy request rejected, circuit open", "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
				return
			}
			log.Warn("proxy request failed", "path", r.URL.Path, "error", err)
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		},
	}
}

// breakerTransport counts transport errors and 5xx responses as failures.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func newBreakerTransport(next http.RoundTripper, name string, o options, log *logutil.ComponentLogger) *breakerTransport {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     o.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("circuit breaker state changed", "upstream", name, "from", from.String(), "to", to.String())
		},
	}
	return &breakerTransport{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out, err := t.cb.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errUpstreamStatus
		}
		return resp, nil
	})

	resp, _ := out.(*http.Response)
	if errors.Is(err, errUpstreamStatus) && resp != nil {
		return resp, nil
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}
