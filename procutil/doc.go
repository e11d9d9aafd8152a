// Package procutil provides cross-platform process queries built on
// github.com/shirou/gopsutil/v4/process.
//
// IsProcessRunning reports whether a PID refers to a live process. Unlike
// os.FindProcess followed by Signal(0), it handles stale PIDs on Windows and
// reports zombies as exited, which matters when supervising a child that has
// died but not yet been waited on.
//
//	if !procutil.IsProcessRunning(cmd.Process.Pid) {
//	    return errors.New("viewer exited before becoming ready")
//	}
//
// Describe returns the process name and command line for diagnostics.
package procutil
