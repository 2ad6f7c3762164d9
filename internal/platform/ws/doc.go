// Package ws streams wizard state changes to browsers over websockets.
//
// A Hub keeps the open connections per session and is registered as an
// events.EventHandler, so every state change a session's machine emits is
// pushed to that session's connections. Handler upgrades HTTP requests and
// runs the read and write pumps of each connection.
package ws
