// Package authn authenticates requests to the viewer by comparing the
// X-Api-Key header against the launch token. There are no user accounts:
// a request carrying the token is the shared "guest" identity, anything else
// is not logged in.
package authn
