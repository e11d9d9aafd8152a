// Package fileutil writes files atomically.
//
// The saved proxy configuration carries the launch token, so it is written
// with AtomicWriteFile and owner-only permissions. The file holds either the
// previous document or the complete new one.
package fileutil
