// Package security provides the path and permission checks used around the
// viewer's credentials and launch configuration.
//
// # Path Validation
//
// ValidatePath rejects empty paths and parent directory references, resolving
// symbolic links before the final check. The viewer server validates the
// application path with it before serving any file from it.
//
// # Permission Checks
//
// Token material must only be reachable by the user that minted it:
//
//	if err := security.ValidateOwnerOnly(tokenPath); err != nil {
//	    return fmt.Errorf("refusing token file: %w", err)
//	}
//
// ValidateOwnerOnly fails with ErrInsecureFilePermissions when any group or
// other bit is set. ValidateFilePermissions is the weaker check applied to the
// JSON launch configuration: it only rejects world-writable files, since a
// writable config lets any local user choose the executable that receives the
// token.
//
// Both checks are skipped on Windows, where access is governed by ACLs.
package security
