// Package events provides types and interfaces for an event-driven architecture.
//
// The wizard publishes an Event every time a session changes step; handlers
// such as the WebSocket hub and the event log subscribe without the wizard
// knowing about them.
//
// The primary components are:
// - Event: a notification about one wizard session
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
