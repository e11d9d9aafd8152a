// Package proxyconfig produces the configuration a notebook proxy needs to
// launch the image viewer: the command to run, the startup timeout, and the
// header carrying the access token on every proxied request.
package proxyconfig
