// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package viewer

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jongio/image-viewer-proxy/logutil"
)

// Handler builds the router. Every route sits behind the auth middleware.
func (s *Server) Handler() (http.Handler, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.log == nil {
		s.log = logutil.NewLogger("viewer")
	}

	app, err := appHandler(s.Config.AppPath)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.Config.Provider.Middleware)

	r.Get("/ws", s.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/*", app)
	return r, nil
}

func appHandler(appPath string) (http.Handler, error) {
	info, err := os.Stat(appPath)
	if err != nil {
		return nil, fmt.Errorf("viewer: application not found: %w", err)
	}
	if info.IsDir() {
		return spaHandler{root: appPath, fs: http.FileServer(http.Dir(appPath))}, nil
	}
	return fileHandler(appPath), nil
}

// spaHandler serves static files if they exist, otherwise falls back to index.html
type spaHandler struct {
	root string
	fs   http.Handler
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "" || path == "/" {
		http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
		return
	}

	// Clean of a rooted path cannot escape root.
	fullPath := filepath.Join(h.root, filepath.FromSlash(filepath.Clean("/"+path)))
	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		h.fs.ServeHTTP(w, r)
		return
	}

	// Client-side routes fall back to the app shell.
	http.ServeFile(w, r, filepath.Join(h.root, "index.html"))
}

// fileHandler serves a single-file application at the root.
func fileHandler(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, path)
	})
}
