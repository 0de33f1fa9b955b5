// Package events provides the study event types and a small in-process
// publish/subscribe mechanism.
//
// The study service emits events when a card graduates, when a graduated
// card lapses back into learning, and when a session is saved. Handlers are
// registered on an InMemoryEventEmitter at startup; the server registers a
// LoggingHandler.
package events
