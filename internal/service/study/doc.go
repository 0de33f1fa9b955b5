// Package study runs study sessions over a deck.
//
// A session is started by Service.Startup, which selects today's cards (or
// resumes today's stored selection) and returns a Session holding the pool
// of cards still to study. Grades are applied to the active card one at a
// time; cards that leave the pool are kept in memory until
// Service.SaveChanges writes them back through the Repository port.
//
// Cramming sessions work on private copies of every card and never write.
package study
