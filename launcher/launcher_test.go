// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jongio/image-viewer-proxy/testutil"
)

// isolatePath empties PATH so only fixture executables are found.
func isolatePath(t *testing.T) {
	t.Helper()
	t.Setenv("PATH", t.TempDir())
}

func TestBuildCommand(t *testing.T) {
	paths := Paths{App: "/srv/viewer/app.py", Server: "/opt/conda/bin/panel"}

	got := BuildCommand(8765, paths, "/tmp/image-viewer123/image-viewer-token")
	want := []string{
		"/opt/conda/bin/panel",
		"serve",
		"/srv/viewer/app.py",
		"--allow-websocket-origin=*",
		"--port",
		"8765",
		"--args",
		"/tmp/image-viewer123/image-viewer-token",
	}
	assert.Equal(t, want, got)
}

func TestBuildCommandIsPure(t *testing.T) {
	paths := Paths{App: "app.py", Server: "panel"}
	first := BuildCommand(1, paths, "tok")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildCommand(1, paths, "tok"))
	}

	// Mutating a returned slice must not leak into later calls.
	first[0] = "changed"
	assert.Equal(t, "panel", BuildCommand(1, paths, "tok")[0])
}

func TestCommandTemplate(t *testing.T) {
	got := CommandTemplate(Paths{App: "app.py", Server: "panel"}, "tokfile")
	assert.Equal(t, PortPlaceholder, got[5])
	assert.Equal(t, "tokfile", got[7])
}

func TestResolve_ConfigFileWins(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t).WithApp(t).WithServer(t)
	inst.WriteConfig(t, map[string]string{
		KeyAppPath:    "/configured/app.py",
		KeyServerPath: "/configured/panel",
	})

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, Paths{App: "/configured/app.py", Server: "/configured/panel"}, paths,
		"configured paths are returned as-is, without fallbacks")
}

func TestResolve_PanelPathAlias(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t)
	inst.WriteConfig(t, map[string]string{
		KeyAppPath:   "/configured/app.py",
		KeyPanelPath: "/configured/panel",
	})

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "/configured/panel", paths.Server)
}

func TestResolve_PartialConfigFallsBack(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t).WithServer(t)
	inst.WriteConfig(t, map[string]string{KeyAppPath: "/configured/app.py"})

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, "/configured/app.py", paths.App)
	assert.Equal(t, inst.Server, paths.Server)
}

func TestResolve_PackageAndPrefixBin(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t).WithApp(t).WithServer(t)

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, inst.App, paths.App)
	assert.Equal(t, inst.Server, paths.Server)
}

func TestResolve_SitePackages(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses the POSIX site-packages layout")
	}
	isolatePath(t)
	inst := testutil.NewInstall(t).WithServer(t)
	app := filepath.Join(inst.Root, "lib", "python3.11", "site-packages", "image_viewer", "app.py")
	testutil.WriteFile(t, app, "", 0o644)

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, app, paths.App)
}

func TestResolve_ServerOnPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures are not executable on Windows")
	}
	inst := testutil.NewInstall(t).WithApp(t)
	pathDir := t.TempDir()
	onPath := filepath.Join(pathDir, "panel")
	testutil.WriteFile(t, onPath, "#!/bin/sh\n", 0o755)
	t.Setenv("PATH", pathDir)

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, onPath, paths.Server)
}

func TestResolve_NothingFound(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t)

	_, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolution))

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, ComponentApplication, resErr.Missing, "application is checked first")
}

func TestResolve_OnlyServerMissing(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t).WithApp(t)

	_, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, ComponentServer, resErr.Missing)
	assert.Contains(t, err.Error(), ServerExecutable)
	assert.Contains(t, err.Error(), "pip install panel")
}

func TestResolve_MalformedConfigSkipped(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t).WithApp(t).WithServer(t)
	testutil.WriteFile(t, inst.ConfigPath(), "{not json", 0o644)

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, inst.App, paths.App)
}

func TestResolve_WorldWritableConfigSkipped(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Windows uses ACLs")
	}
	isolatePath(t)
	inst := testutil.NewInstall(t).WithApp(t).WithServer(t)
	inst.WriteConfig(t, map[string]string{KeyServerPath: "/tmp/evil"})
	require.NoError(t, os.Chmod(inst.ConfigPath(), 0o666))

	paths, err := NewResolver(DefaultStrategies(inst.Root)...).Resolve()
	require.NoError(t, err)
	assert.Equal(t, inst.Server, paths.Server)
}

type recordingStrategy struct {
	name  string
	fill  Paths
	err   error
	calls *[]string
}

func (s recordingStrategy) Name() string { return s.name }

func (s recordingStrategy) Resolve(p *Paths) error {
	*s.calls = append(*s.calls, s.name)
	if s.err != nil {
		return s.err
	}
	if p.App == "" {
		p.App = s.fill.App
	}
	if p.Server == "" {
		p.Server = s.fill.Server
	}
	return nil
}

func TestResolver_Order(t *testing.T) {
	var calls []string
	r := NewResolver(
		recordingStrategy{name: "broken", err: errors.New("boom"), calls: &calls},
		recordingStrategy{name: "first", fill: Paths{App: "a1"}, calls: &calls},
		recordingStrategy{name: "second", fill: Paths{App: "a2", Server: "s2"}, calls: &calls},
		recordingStrategy{name: "unused", fill: Paths{App: "a3", Server: "s3"}, calls: &calls},
	)

	paths, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Paths{App: "a1", Server: "s2"}, paths)
	assert.Equal(t, []string{"broken", "first", "second"}, calls)
}

func TestRoot(t *testing.T) {
	t.Setenv(EnvRoot, "/opt/viewer")
	root, err := Root()
	require.NoError(t, err)
	assert.Equal(t, "/opt/viewer", root)

	t.Setenv(EnvRoot, "")
	root, err = Root()
	require.NoError(t, err)
	assert.NotEmpty(t, root)
}

func TestDefaultResolverUsesEnvRoot(t *testing.T) {
	isolatePath(t)
	inst := testutil.NewInstall(t).WithApp(t).WithServer(t)
	t.Setenv(EnvRoot, inst.Root)

	r, err := DefaultResolver()
	require.NoError(t, err)
	paths, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, inst.App, paths.App)
}
