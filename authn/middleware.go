// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package authn

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
)

type contextKey struct{}

// IdentityFromContext returns the identity stored by Middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Middleware rejects unauthenticated requests with 401 and a generic body,
// or 429 when the denied-request limit is exceeded. Authenticated requests
// reach next with the identity in their context.
func (p *TokenProvider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientAddr(r)

		id, err := p.Authenticate(r)
		if err != nil {
			if p.limiter != nil && !p.limiter.allow(clientIP) {
				authRequests.WithLabelValues(resultRateLimited).Inc()
				p.log.Warn("[audit] request denied", "client", clientIP, "result", resultRateLimited)
				w.Header().Set("Retry-After", strconv.Itoa(p.limiter.retryAfterSeconds()))
				writeErrorJSON(w, http.StatusTooManyRequests, "Rate limit exceeded. Try again later.")
				return
			}
			authRequests.WithLabelValues(resultDenied).Inc()
			// SECURITY: never log the presented header value
			p.log.Info("[audit] request denied", "client", clientIP, "result", resultDenied)
			writeErrorJSON(w, http.StatusUnauthorized, "Not logged in")
			return
		}

		authRequests.WithLabelValues(resultSuccess).Inc()
		p.log.Debug("[audit] request authenticated", "client", clientIP, "result", resultSuccess)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}

// clientAddr returns the normalized remote IP of r.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		host = r.RemoteAddr
	}
	// Normalize to prevent limiter bypass via alternate IPv6 spellings.
	if ip := net.ParseIP(host); ip != nil {
		host = ip.String()
	}
	return host
}

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
