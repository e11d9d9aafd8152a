// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package procutil

import (
	"context"
	"fmt"
	"slices"

	"github.com/shirou/gopsutil/v4/process"
)

// Info describes a running process.
type Info struct {
	PID     int32
	Name    string
	Cmdline []string
}

// IsProcessRunning checks if a process with the given PID is running.
// Zombie processes, which have exited but not yet been reaped, are reported
// as not running.
func IsProcessRunning(pid int) bool {
	return IsProcessRunningContext(context.Background(), pid)
}

// IsProcessRunningContext is IsProcessRunning with a caller-supplied context.
func IsProcessRunningContext(ctx context.Context, pid int) bool {
	if pid <= 0 || pid > maxPID {
		return false
	}

	exists, err := process.PidExistsWithContext(ctx, int32(pid))
	if err != nil || !exists {
		return false
	}

	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return false
	}
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		// Status is not available on every platform; existence is enough.
		return true
	}
	return !slices.Contains(status, process.Zombie)
}

// Describe returns the name and command line of a running process.
func Describe(ctx context.Context, pid int) (Info, error) {
	if pid <= 0 || pid > maxPID {
		return Info{}, fmt.Errorf("invalid pid %d", pid)
	}
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return Info{}, fmt.Errorf("failed to open process %d: %w", pid, err)
	}

	info := Info{PID: p.Pid}
	if info.Name, err = p.NameWithContext(ctx); err != nil {
		return Info{}, fmt.Errorf("failed to read name of process %d: %w", pid, err)
	}
	if info.Cmdline, err = p.CmdlineSliceWithContext(ctx); err != nil {
		return Info{}, fmt.Errorf("failed to read command line of process %d: %w", pid, err)
	}
	return info, nil
}

const maxPID = 1<<31 - 1
