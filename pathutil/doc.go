// Package pathutil locates executables and install prefixes.
//
// FindToolInPath wraps exec.LookPath and appends .exe on Windows.
// SearchToolInDirs probes an explicit list of directories, which is how the
// launcher falls back to <prefix>/bin when the serving executable is not on
// PATH:
//
//	prefix, _ := pathutil.ExecutablePrefix()
//	panel := pathutil.FindToolInPath("panel")
//	if panel == "" {
//	    panel = pathutil.SearchToolInDirs("panel", pathutil.BinDir(prefix))
//	}
//	if panel == "" {
//	    fmt.Println(pathutil.GetInstallSuggestion("panel"))
//	}
package pathutil
