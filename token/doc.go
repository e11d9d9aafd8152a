// Package token mints the one-time access token shared by the hosting proxy
// and the viewer process, and persists it where only the current user can
// read it.
//
//	tok, err := token.Mint()
//	if err != nil {
//	    return err
//	}
//	loc, err := token.Store{}.Persist(tok)
//	if err != nil {
//	    return err // wraps token.ErrStorage
//	}
//	// loc.Path is handed to the viewer, which calls token.Read.
//
// Each token lives in its own directory created by os.MkdirTemp with mode
// 0700. The token file is created exclusively with mode 0600 and holds the
// raw token with no trailing newline. Nothing is ever rotated or removed.
package token
