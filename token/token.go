// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jongio/image-viewer-proxy/security"
)

const (
	// ByteLength is the number of random bytes behind each token.
	ByteLength = 32
	// DirPrefix is the prefix of every token directory.
	DirPrefix = "image-viewer"
	// FileName is the name of the token file inside its directory.
	FileName = "image-viewer-token"
)

var (
	// ErrStorage indicates the token could not be written to disk.
	ErrStorage = errors.New("token storage failed")
	// ErrEmptyToken indicates an empty token was supplied or read.
	ErrEmptyToken = errors.New("empty token")
	// ErrInsecureFilePermissions is returned by Read for token files that
	// other users could read.
	ErrInsecureFilePermissions = security.ErrInsecureFilePermissions
)

// Mint returns a new URL-safe token of ByteLength random bytes.
//
// SECURITY: Never log the returned value.
func Mint() (string, error) {
	buf := make([]byte, ByteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Location identifies a persisted token.
type Location struct {
	// Dir is the private directory created for this token.
	Dir string
	// Path is the token file inside Dir.
	Path string
}

// String returns the token file path, which is what the child process reads.
func (l Location) String() string {
	return l.Path
}

// Store persists tokens into fresh private directories.
type Store struct {
	// BaseDir is the parent of token directories. Empty means os.TempDir().
	BaseDir string
	// Prefix overrides DirPrefix.
	Prefix string
}

// Persist writes tok to a new directory readable only by the current user.
// The directory and file are never reused or removed by this package.
func (s Store) Persist(tok string) (Location, error) {
	if tok == "" {
		return Location{}, fmt.Errorf("%w: %w", ErrStorage, ErrEmptyToken)
	}

	prefix := s.Prefix
	if prefix == "" {
		prefix = DirPrefix
	}

	dir, err := os.MkdirTemp(s.BaseDir, prefix)
	if err != nil {
		return Location{}, fmt.Errorf("%w: failed to create token directory: %w", ErrStorage, err)
	}

	loc, err := writeToken(dir, tok)
	if err != nil {
		_ = os.RemoveAll(dir)
		return Location{}, err
	}
	return loc, nil
}

func writeToken(dir, tok string) (Location, error) {
	if err := os.Chmod(dir, security.PrivateDirPermission); err != nil {
		return Location{}, fmt.Errorf("%w: failed to restrict token directory: %w", ErrStorage, err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, security.PrivateFilePermission)
	if err != nil {
		return Location{}, fmt.Errorf("%w: failed to create token file: %w", ErrStorage, err)
	}
	if _, err := f.WriteString(tok); err != nil {
		_ = f.Close()
		return Location{}, fmt.Errorf("%w: failed to write token file: %w", ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return Location{}, fmt.Errorf("%w: failed to close token file: %w", ErrStorage, err)
	}

	return Location{Dir: dir, Path: path}, nil
}

// Read loads a token written by Persist. Files that grant any access to
// group or others are refused.
func Read(path string) (string, error) {
	if err := security.ValidateOwnerOnly(path); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyToken)
	}
	return tok, nil
}
