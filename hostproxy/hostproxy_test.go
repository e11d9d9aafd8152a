// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package hostproxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInjectsHeaders(t *testing.T) {
	var got http.Header
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.RequestURI()
		_, _ = w.Write([]byte("from viewer"))
	}))
	defer backend.Close()

	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	proxy := httptest.NewServer(New(target, map[string]string{"x-api-key": "tok"}))
	defer proxy.Close()

	req, err := http.NewRequest(http.MethodGet, proxy.URL+"/images/1?path=a.png", nil)
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", "client-supplied")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "from viewer", string(body))
	assert.Equal(t, []string{"tok"}, got.Values("X-Api-Key"), "override replaces the client value")
	assert.Equal(t, "/images/1?path=a.png", gotPath)
	assert.NotEmpty(t, got.Get("X-Forwarded-For"))
}

func TestNewBadGateway(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	backend.Close()

	proxy := httptest.NewServer(New(target, nil))
	defer proxy.Close()

	resp, err := http.Get(proxy.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestNewCircuitOpensOnUnreachableViewer(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	backend.Close()

	proxy := httptest.NewServer(New(target, nil, WithBreaker(3, time.Minute)))
	defer proxy.Close()

	status := func() int {
		resp, err := http.Get(proxy.URL)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusBadGateway, status(), "request %d reaches the viewer", i)
	}
	assert.Equal(t, http.StatusServiceUnavailable, status(), "breaker is open")
}

func TestNewCircuitOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "viewer crashed", http.StatusInternalServerError)
	}))
	defer backend.Close()

	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	proxy := httptest.NewServer(New(target, nil, WithBreaker(2, time.Minute)))
	defer proxy.Close()

	get := func() (int, string) {
		resp, err := http.Get(proxy.URL)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	for i := 0; i < 2; i++ {
		code, body := get()
		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Contains(t, body, "viewer crashed", "5xx responses are passed through")
	}

	code, _ := get()
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, int32(2), calls.Load(), "open breaker does not contact the viewer")
}

func TestNewCircuitRecovers(t *testing.T) {
	var healthy atomic.Bool
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer backend.Close()

	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	proxy := httptest.NewServer(New(target, nil, WithBreaker(1, 50*time.Millisecond)))
	defer proxy.Close()

	status := func() int {
		resp, err := http.Get(proxy.URL)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusBadGateway, status())
	assert.Equal(t, http.StatusServiceUnavailable, status())

	healthy.Store(true)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, status(), "half-open trial succeeds and closes the breaker")
	assert.Equal(t, http.StatusOK, status())
}

func TestNewBreakerDisabled(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	backend.Close()

	proxy := httptest.NewServer(New(target, nil, WithBreaker(0, 0)))
	defer proxy.Close()

	for i := 0; i < DefaultBreakerFailures+2; i++ {
		resp, err := http.Get(proxy.URL)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}
}
