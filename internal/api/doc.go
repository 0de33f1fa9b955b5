// Package api handles incoming HTTP requests, routing, request validation,
// and response formatting. It acts as an adapter between HTTP clients and
// the study service.
//
// Study sessions live in memory, one per deck, and are addressed by the deck
// id in the URL.
package api
