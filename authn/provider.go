// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package authn

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/jongio/image-viewer-proxy/logutil"
)

const (
	// HeaderAPIKey carries the launch token on every proxied request.
	HeaderAPIKey = "X-Api-Key"
	// GuestIdentity is the identity of every authenticated request.
	GuestIdentity Identity = "guest"
	// GuestCookie is added to authenticated requests with value "1".
	GuestCookie = "is_guest"
	// LoginURL is advertised to the serving framework. No login form exists.
	LoginURL = "/login/"
)

var (
	// ErrNotLoggedIn is returned for any request without the correct token.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrEmptyToken is returned by NewTokenProvider for an empty token.
	ErrEmptyToken = errors.New("authn: token must not be empty")
)

// Identity names an authenticated user.
type Identity string

// TokenProvider authenticates requests against a single immutable token.
// It is safe for concurrent use.
type TokenProvider struct {
	token   []byte
	log     *logutil.ComponentLogger
	limiter *deniedLimiter
}

// Option configures a TokenProvider.
type Option func(*TokenProvider)

// WithLogger replaces the audit logger.
func WithLogger(l *logutil.ComponentLogger) Option {
	return func(p *TokenProvider) {
		if l != nil {
			p.log = l
		}
	}
}

// WithDeniedRateLimit answers 429 once a client exceeds perMinute denied
// requests, with bursts of up to burst. Successful requests are never limited.
func WithDeniedRateLimit(perMinute, burst int) Option {
	return func(p *TokenProvider) {
		if perMinute > 0 && burst > 0 {
			p.limiter = newDeniedLimiter(perMinute, burst)
		}
	}
}

// NewTokenProvider returns a provider for token. An empty token is rejected
// because it would match a request with no header at all.
func NewTokenProvider(token string, opts ...Option) (*TokenProvider, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	p := &TokenProvider{
		token: []byte(token),
		log:   logutil.NewLogger("authn"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// LoginURL returns the login URL advertised to the serving framework.
func (p *TokenProvider) LoginURL() string {
	return LoginURL
}

// Authenticate checks the X-Api-Key header in constant time. On success the
// guest cookie is added to r and GuestIdentity is returned.
func (p *TokenProvider) Authenticate(r *http.Request) (Identity, error) {
	got := r.Header.Get(HeaderAPIKey)
	if got == "" || subtle.ConstantTimeCompare([]byte(got), p.token) != 1 {
		return "", ErrNotLoggedIn
	}
	r.AddCookie(&http.Cookie{Name: GuestCookie, Value: "1"})
	return GuestIdentity, nil
}
