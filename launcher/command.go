// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package launcher

import "strconv"

// PortPlaceholder stands in for the port in CommandTemplate. Notebook proxies
// substitute it when they launch the process.
const PortPlaceholder = "{port}"

// BuildCommand returns the argv that starts the viewer on port, reading its
// token from tokenPath. It has no side effects.
func BuildCommand(port int, paths Paths, tokenPath string) []string {
	return command(strconv.Itoa(port), paths, tokenPath)
}

// CommandTemplate is BuildCommand with PortPlaceholder in place of the port.
func CommandTemplate(paths Paths, tokenPath string) []string {
	return command(PortPlaceholder, paths, tokenPath)
}

func command(port string, paths Paths, tokenPath string) []string {
	return []string{
		paths.Server,
		"serve",
		paths.App,
		"--allow-websocket-origin=*",
		"--port",
		port,
		"--args",
		tokenPath,
	}
}
