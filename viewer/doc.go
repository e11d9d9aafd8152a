// Package viewer serves the image viewer application behind the token auth
// middleware. It is what the launch command starts: the proxy forwards every
// browser request here with the X-Api-Key header attached.
//
// Routes:
//
//	/ws       websocket with PING/PONG keepalive, origin checked
//	/metrics  Prometheus metrics
//	/*        the application
package viewer
