// Package spawn runs the viewer command as a supervised child process:
// its output is forwarded line by line to the logger, readiness is detected
// by polling over HTTP, and Stop escalates from SIGTERM to kill.
package spawn
