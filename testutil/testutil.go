// Package testutil provides shared test fixtures: captured command output,
// temporary directories and fake viewer installations.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jongio/image-viewer-proxy/cliout"
)

// CaptureOutput captures everything cliout writes during fn.
// The previous writer is always restored, even if fn returns an error.
//
// Example:
//
//	output := testutil.CaptureOutput(t, func() error {
//	    return cmd.Execute()
//	})
func CaptureOutput(t *testing.T, fn func() error) string {
	t.Helper()

	var buf bytes.Buffer
	restore := cliout.SetOutput(&buf)
	defer restore()

	if err := fn(); err != nil {
		t.Logf("Command error: %v", err)
	}
	return buf.String()
}

// TempDir creates a temporary directory that is removed when the test
// completes.
func TempDir(t *testing.T) string {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "image-viewer-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}

	t.Cleanup(func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Logf("Failed to clean up temp directory %s: %v", tmpDir, err)
		}
	})

	return tmpDir
}

// Install describes a fake viewer installation rooted at Root.
type Install struct {
	Root   string
	App    string
	Server string
}

// ConfigPath returns the JSON launch configuration path under the root.
func (i Install) ConfigPath() string {
	return filepath.Join(i.Root, "etc", "image_viewer_jupyter_proxy.json")
}

// NewInstall creates an empty install root with etc and bin directories.
func NewInstall(t *testing.T) Install {
	t.Helper()
	root := TempDir(t)
	for _, dir := range []string{"etc", "bin"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return Install{Root: root}
}

// WithApp creates the packaged application entry file.
func (i Install) WithApp(t *testing.T) Install {
	t.Helper()
	i.App = filepath.Join(i.Root, "share", "image-viewer", "app.py")
	WriteFile(t, i.App, "import panel as pn\n", 0o644)
	return i
}

// WithServer creates an executable serving program in the bin directory.
func (i Install) WithServer(t *testing.T) Install {
	t.Helper()
	name := "panel"
	dir := "bin"
	if runtime.GOOS == "windows" {
		name, dir = "panel.exe", "Scripts"
	}
	i.Server = filepath.Join(i.Root, dir, name)
	WriteFile(t, i.Server, "#!/bin/sh\nexit 0\n", 0o755)
	return i
}

// WriteConfig writes the JSON launch configuration with the given keys.
func (i Install) WriteConfig(t *testing.T, values map[string]string) {
	t.Helper()
	data, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}
	WriteFile(t, i.ConfigPath(), string(data), 0o644)
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	// WriteFile is subject to the umask.
	if err := os.Chmod(path, perm); err != nil {
		t.Fatalf("Failed to chmod %s: %v", path, err)
	}
}
