// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package pathutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// executableName appends .exe on Windows when it is missing.
func executableName(toolName string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(toolName), ".exe") {
		return toolName + ".exe"
	}
	return toolName
}

// FindToolInPath searches for a tool executable in the system PATH.
// Returns the full path to the executable if found, empty string otherwise.
func FindToolInPath(toolName string) string {
	if toolName == "" {
		return ""
	}
	path, err := exec.LookPath(executableName(toolName))
	if err != nil {
		return ""
	}
	return path
}

// SearchToolInDirs looks for an executable file named toolName in each
// directory in order and returns the first match.
func SearchToolInDirs(toolName string, dirs ...string) string {
	if toolName == "" {
		return ""
	}
	exeName := executableName(toolName)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		fullPath := filepath.Join(dir, exeName)
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}
		if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
			continue
		}
		return fullPath
	}
	return ""
}

// BinDir returns the directory holding executables under an install prefix.
func BinDir(prefix string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(prefix, "Scripts")
	}
	return filepath.Join(prefix, "bin")
}

// ExecutablePrefix returns the install prefix of the running executable:
// <prefix>/bin/<exe> yields <prefix>. Symbolic links are resolved first.
func ExecutablePrefix() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe)), nil
}

// GetInstallSuggestion returns a suggestion for how to install a missing tool.
func GetInstallSuggestion(toolName string) string {
	suggestions := map[string]string{
		"panel":   "Install with 'pip install panel' or 'conda install -c conda-forge panel'",
		"python":  "Install from https://www.python.org/downloads/",
		"pip":     "Install Python from https://www.python.org/downloads/",
		"conda":   "Install from https://docs.conda.io/en/latest/miniconda.html",
		"jupyter": "Install with 'pip install jupyterlab jupyter-server-proxy'",
	}

	if suggestion, ok := suggestions[toolName]; ok {
		return suggestion
	}
	return fmt.Sprintf("Please install %s manually", toolName)
}
