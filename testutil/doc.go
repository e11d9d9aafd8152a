// Package testutil provides common testing utilities.
//
// This package includes helpers for:
//   - Capturing cliout output during command execution (CaptureOutput)
//   - Creating temporary directories with automatic cleanup (TempDir)
//   - Building fake viewer installations for path resolution tests (NewInstall)
//
// All functions use t.Helper() for proper test line reporting.
//
// Example usage:
//
//	func TestResolve(t *testing.T) {
//	    inst := testutil.NewInstall(t).WithApp(t).WithServer(t)
//	    t.Setenv("IMAGE_VIEWER_ROOT", inst.Root)
//	    inst.WriteConfig(t, map[string]string{"app_path": "/srv/app.py"})
//	}
package testutil
