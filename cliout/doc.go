// Package cliout provides consistent, format-aware command output.
//
// The global format is set once from the --output flag:
//
//	if err := cliout.SetFormat(output); err != nil {
//	    return err
//	}
//
// Print dispatches on that format. In default mode it runs the supplied
// formatter; in json and yaml modes it encodes the data value instead:
//
//	return cliout.Print(cfg, func() {
//	    cliout.Header("Proxy configuration")
//	    cliout.Label("Timeout", strconv.Itoa(cfg.Timeout))
//	})
//
// Color is enabled only when stdout is a terminal, as reported by
// golang.org/x/term. SetOutput redirects everything to another writer, which
// also disables color unless that writer is itself a terminal.
package cliout
