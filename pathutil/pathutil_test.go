// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, executableName(name))
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestFindToolInPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixtures are not executable on Windows")
	}
	dir := t.TempDir()
	want := writeExecutable(t, dir, "panel")
	t.Setenv("PATH", dir)

	got := FindToolInPath("panel")
	if got != want {
		t.Errorf("FindToolInPath(panel) = %q, want %q", got, want)
	}
}

func TestFindToolInPath_EdgeCases(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	tests := []struct {
		name     string
		toolName string
	}{
		{"empty name", ""},
		{"missing tool", "definitely-not-a-real-tool-xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindToolInPath(tt.toolName); got != "" {
				t.Errorf("FindToolInPath(%q) = %q, want empty", tt.toolName, got)
			}
		})
	}
}

func TestSearchToolInDirs(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	want := writeExecutable(t, second, "panel")

	if got := SearchToolInDirs("panel", "", first, second); got != want {
		t.Errorf("SearchToolInDirs() = %q, want %q", got, want)
	}

	earlier := writeExecutable(t, first, "panel")
	if got := SearchToolInDirs("panel", first, second); got != earlier {
		t.Errorf("SearchToolInDirs() should prefer the first directory, got %q", got)
	}
}

func TestSearchToolInDirs_SkipsNonExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not used on Windows")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "panel"), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "python"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := SearchToolInDirs("panel", dir); got != "" {
		t.Errorf("non-executable file should be skipped, got %q", got)
	}
	if got := SearchToolInDirs("python", dir); got != "" {
		t.Errorf("directory should be skipped, got %q", got)
	}
}

func TestBinDir(t *testing.T) {
	got := BinDir(filepath.Join("opt", "conda"))
	want := "bin"
	if runtime.GOOS == "windows" {
		want = "Scripts"
	}
	if filepath.Base(got) != want {
		t.Errorf("BinDir() = %q, want base %q", got, want)
	}
}

func TestExecutablePrefix(t *testing.T) {
	prefix, err := ExecutablePrefix()
	if err != nil {
		t.Fatalf("ExecutablePrefix() error: %v", err)
	}
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if !strings.HasPrefix(exe, prefix) {
		t.Errorf("executable %q is not under prefix %q", exe, prefix)
	}
}

func TestGetInstallSuggestion(t *testing.T) {
	tests := []struct {
		toolName string
		contains string
	}{
		{"panel", "pip install panel"},
		{"python", "python.org"},
		{"conda", "conda"},
		{"unknown-tool", "Please install unknown-tool manually"},
	}

	for _, tt := range tests {
		t.Run(tt.toolName, func(t *testing.T) {
			got := GetInstallSuggestion(tt.toolName)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("GetInstallSuggestion(%q) = %q, want it to contain %q", tt.toolName, got, tt.contains)
			}
		})
	}
}
