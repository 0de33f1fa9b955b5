// Package domain contains the core study entities of the application: cards
// and their learning state, decks with their spaced repetition configuration,
// and the daily study session. It is independent of any storage or delivery
// mechanism.
package domain
