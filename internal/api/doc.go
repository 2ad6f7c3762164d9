// Package api exposes the wizard over HTTP. It translates requests into
// events on a session's wizard.Machine and returns the resulting snapshot
// together with its rendered view.
package api
