package postgres

import "github.com/Masterminds/squirrel"

// psql builds statements with PostgreSQL $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Table names.
const (
	decksTable    = "decks"
	cardsTable    = "cards"
	sessionsTable = "sessions"
)
