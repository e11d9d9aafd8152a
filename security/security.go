// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Permission bits for credential material.
const (
	// PrivateDirPermission restricts a directory to its owner (rwx------).
	PrivateDirPermission os.FileMode = 0o700
	// PrivateFilePermission restricts a file to its owner (rw-------).
	PrivateFilePermission os.FileMode = 0o600
)

var (
	// ErrInvalidPath indicates a path contains invalid characters or patterns.
	ErrInvalidPath = errors.New("invalid path")
	// ErrPathTraversal indicates a path traversal attack attempt.
	ErrPathTraversal = errors.New("path traversal detected")
	// ErrInsecureFilePermissions indicates a file or directory is accessible beyond its owner.
	ErrInsecureFilePermissions = errors.New("insecure file permissions")
)

// ValidatePath checks if a path is safe to use.
// It rejects empty paths and parent directory references, before and after
// cleaning and after symbolic links are resolved.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	if strings.Contains(path, "..") {
		return fmt.Errorf("%w: path contains parent directory reference", ErrPathTraversal)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path: %w", ErrInvalidPath, err)
	}
	cleanPath := filepath.Clean(absPath)

	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		// A path that does not exist yet is still structurally valid.
		if !os.IsNotExist(err) {
			return fmt.Errorf("%w: cannot resolve symbolic links: %w", ErrInvalidPath, err)
		}
		resolvedPath = cleanPath
	}

	if strings.Contains(resolvedPath, "..") {
		return fmt.Errorf("%w: resolved path contains parent directory reference", ErrPathTraversal)
	}

	return nil
}

// ValidateOwnerOnly checks that a file or directory grants no permissions to
// group or others. Token directories and token files must pass this check.
// On Windows, this check is skipped as Windows uses ACLs.
func ValidateOwnerOnly(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filepath.Base(path), err)
	}

	if info.Mode().Perm()&0o077 != 0 {
		return fmt.Errorf("%w: %s has mode %04o", ErrInsecureFilePermissions, filepath.Base(path), info.Mode().Perm())
	}

	return nil
}

// ValidateFilePermissions checks that a file is not world-writable.
// Configuration files that decide which executable gets launched must pass this check.
func ValidateFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if info.Mode().Perm()&0o002 != 0 {
		return ErrInsecureFilePermissions
	}

	return nil
}
